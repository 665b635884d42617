package stripe

import (
	"context"
	"errors"
	"strconv"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Client adapts the Stripe SDK to the narrow gateway surface checkout
// consumes: hosted session create and the authoritative session fetch.
type Client struct {
	api *client.API
}

// NewClient builds a client for the given API base URL: the live API in
// production, a local stub in tests.
func NewClient(apiKey, baseURL string) *Client {
	api := &client.API{}
	if baseURL != "" {
		backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
			URL: stripego.String(baseURL),
		})
		api.Init(apiKey, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})
	} else {
		api.Init(apiKey, nil)
	}
	return &Client{api: api}
}

// CreateCheckoutSession creates a hosted checkout session and returns it,
// including the hosted payment page URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, params SessionParams) (*CheckoutSession, error) {
	p := &stripego.CheckoutSessionParams{
		Params:             stripego.Params{Context: ctx},
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		SuccessURL:         stripego.String(params.SuccessURL),
		CancelURL:          stripego.String(params.CancelURL),
	}
	if params.UserID != "" {
		p.AddMetadata(MetadataUserID, params.UserID)
	}
	for _, item := range params.LineItems {
		productData := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(item.Name),
			Metadata: map[string]string{
				MetadataProductID: strconv.FormatInt(item.ProductID, 10),
			},
		}
		if item.Description != "" {
			productData.Description = stripego.String(item.Description)
		}
		p.LineItems = append(p.LineItems, &stripego.CheckoutSessionLineItemParams{
			Quantity: stripego.Int64(int64(item.Quantity)),
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(params.Currency),
				UnitAmount:  stripego.Int64(item.UnitAmount),
				ProductData: productData,
			},
		})
	}

	sess, err := c.api.CheckoutSessions.New(p)
	if err != nil {
		return nil, translateError(err)
	}
	return fromSession(sess), nil
}

// GetCheckoutSession re-fetches a session by id with line items and their
// product data expanded. This is the authoritative read reconciliation
// trusts instead of the webhook payload.
func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	p := &stripego.CheckoutSessionParams{Params: stripego.Params{Context: ctx}}
	p.AddExpand("line_items")
	p.AddExpand("line_items.data.price.product")

	sess, err := c.api.CheckoutSessions.Get(id, p)
	if err != nil {
		return nil, translateError(err)
	}
	return fromSession(sess), nil
}

// fromSession narrows the SDK session to the fields this backend reads.
func fromSession(s *stripego.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
	}
	if s.LineItems == nil {
		return out
	}
	list := &LineItemList{}
	for _, li := range s.LineItems.Data {
		item := LineItem{Quantity: li.Quantity, AmountTotal: li.AmountTotal}
		if li.Price != nil {
			price := &Price{
				UnitAmount: li.Price.UnitAmount,
				Currency:   string(li.Price.Currency),
			}
			if li.Price.Product != nil {
				price.Product = &ProductDetail{
					ID:          li.Price.Product.ID,
					Name:        li.Price.Product.Name,
					Description: li.Price.Product.Description,
					Metadata:    li.Price.Product.Metadata,
				}
			}
			item.Price = price
		}
		list.Data = append(list.Data, item)
	}
	out.LineItems = list
	return out
}

// translateError maps SDK API errors onto the local envelope so callers
// can branch on gateway rejections without importing the SDK.
func translateError(err error) error {
	var sdkErr *stripego.Error
	if errors.As(err, &sdkErr) {
		return &APIError{
			StatusCode: sdkErr.HTTPStatusCode,
			Type:       string(sdkErr.Type),
			Code:       string(sdkErr.Code),
			Message:    sdkErr.Msg,
		}
	}
	return err
}
