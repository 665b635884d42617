// Package stripe wraps the Stripe SDK behind the hosted-checkout surface
// this backend uses: session create/fetch and signed webhook events. The
// types here narrow the SDK objects to the fields reconciliation reads, so
// the rest of the tree never imports the SDK. Amounts on the wire are
// integer minor currency units.
package stripe

import "encoding/json"

// EventCheckoutSessionCompleted is the only event type that triggers order
// reconciliation; every other type is acknowledged and ignored.
const EventCheckoutSessionCompleted = "checkout.session.completed"

// Metadata keys carried on sessions and line-item price data.
const (
	MetadataUserID    = "user_id"
	MetadataProductID = "product_id"
)

// CheckoutSession mirrors the gateway's session object, restricted to the
// fields this backend reads.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
	LineItems     *LineItemList     `json:"line_items,omitempty"`
}

type LineItemList struct {
	Data []LineItem `json:"data"`
}

type LineItem struct {
	Quantity    int64  `json:"quantity"`
	AmountTotal int64  `json:"amount_total"`
	Price       *Price `json:"price,omitempty"`
}

type Price struct {
	UnitAmount int64          `json:"unit_amount"`
	Currency   string         `json:"currency"`
	Product    *ProductDetail `json:"product,omitempty"`
}

type ProductDetail struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// Event is the decoded webhook envelope. Data.Object stays raw until the
// dispatcher knows the event type.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object json.RawMessage `json:"object"`
}

// Session decodes the event payload as a checkout session.
func (e *Event) Session() (*CheckoutSession, error) {
	var s CheckoutSession
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SessionParams describes a session to create.
type SessionParams struct {
	SuccessURL string
	CancelURL  string
	Currency   string
	// UserID rides along as session metadata; it is the only durable link
	// between the session and the buyer once the gateway takes over.
	UserID    string
	LineItems []LineItemParams
}

type LineItemParams struct {
	Name        string
	Description string
	// UnitAmount is the price in minor currency units (cents).
	UnitAmount int64
	Quantity   int
	// ProductID is attached as item-level metadata so reconciliation can
	// recover it without a second catalog lookup.
	ProductID int64
}

// APIError is the gateway's error envelope.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "payment gateway error"
}
