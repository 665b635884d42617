// Package checkout turns a user's cart into a hosted payment session and,
// once the gateway confirms payment, reconciles the session into a
// persisted order while clearing the originating cart.
package checkout

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/example/ec-shop/internal/apperrors"
	"github.com/example/ec-shop/internal/domain/cart"
	"github.com/example/ec-shop/internal/domain/order"
	"github.com/example/ec-shop/internal/payment/stripe"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartReader is the consumed cart contract: an ephemeral snapshot with
// product details resolved.
type CartReader interface {
	Snapshot(ctx context.Context, userID string) (*cart.Snapshot, error)
}

// UserDirectory resolves a user id to a known identity.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Gateway is the payment-gateway surface the orchestrator needs.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params stripe.SessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

// OrderCommitter persists an order and clears the owning user's cart as one
// transaction. It reports created=false, with no error, when an order for
// the same payment token already exists (a replayed webhook).
type OrderCommitter interface {
	CommitOrder(ctx context.Context, o *order.Order) (created bool, err error)
}

// Publisher emits domain events after a successful commit. Optional.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// OrderCreated is published after reconciliation commits.
type OrderCreated struct {
	OrderID     int64     `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
	SessionID   string    `json:"session_id"`
	CreatedAt   time.Time `json:"created_at"`
}

const defaultFetchTimeout = 10 * time.Second

type Orchestrator struct {
	users     UserDirectory
	carts     CartReader
	gateway   Gateway
	committer OrderCommitter
	publisher Publisher // nil disables event publishing

	currency      string
	webhookSecret string
	fetchTimeout  time.Duration
	logger        zerolog.Logger
}

type Option func(*Orchestrator)

// WithPublisher enables order-event publishing after commits.
func WithPublisher(p Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

// WithFetchTimeout bounds the authoritative session re-fetch, the only
// unbounded external wait on the reconciliation path.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.fetchTimeout = d }
}

func NewOrchestrator(
	users UserDirectory,
	carts CartReader,
	gateway Gateway,
	committer OrderCommitter,
	currency, webhookSecret string,
	logger zerolog.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		users:         users,
		carts:         carts,
		gateway:       gateway,
		committer:     committer,
		currency:      currency,
		webhookSecret: webhookSecret,
		fetchTimeout:  defaultFetchTimeout,
		logger:        logger.With().Str("component", "checkout").Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateSession builds a payment session from the user's cart and returns
// the hosted payment page URL. No local state is written.
func (o *Orchestrator) CreateSession(ctx context.Context, userID, successURL, cancelURL string) (string, error) {
	known, err := o.users.Exists(ctx, userID)
	if err != nil {
		return "", apperrors.Internal("resolve user", err)
	}
	if !known {
		return "", apperrors.NotFound("user not found")
	}

	snapshot, err := o.carts.Snapshot(ctx, userID)
	if err != nil || len(snapshot.Items) == 0 {
		return "", apperrors.BadRequest("cart is empty or not found")
	}

	params := stripe.SessionParams{
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Currency:   o.currency,
		UserID:     userID,
		LineItems:  make([]stripe.LineItemParams, 0, len(snapshot.Items)),
	}
	for _, item := range snapshot.Items {
		params.LineItems = append(params.LineItems, stripe.LineItemParams{
			Name:        item.Name,
			Description: item.Description,
			UnitAmount:  toMinorUnits(item.UnitPrice),
			Quantity:    item.Quantity,
			ProductID:   item.ProductID,
		})
	}

	session, err := o.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		var apiErr *stripe.APIError
		if errors.As(err, &apiErr) {
			return "", apperrors.Newf(apperrors.KindBadRequest, "payment gateway error: %s", apiErr.Message)
		}
		return "", apperrors.Internal("create checkout session", err)
	}

	o.logger.Info().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Int("line_items", len(params.LineItems)).
		Msg("checkout session created")

	return session.URL, nil
}

// HandleWebhook verifies the raw event, dispatches on its type and, for a
// completed checkout session, persists the order and clears the cart.
func (o *Orchestrator) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	// Step 1: nothing beyond the signature scheme is parsed before the
	// payload is proven authentic.
	event, err := stripe.ConstructEvent(payload, sigHeader, o.webhookSecret)
	if err != nil {
		return apperrors.Wrap(apperrors.KindBadRequest, "invalid signature / payload", err)
	}

	// Step 2: unknown event types are acknowledged so new gateway event
	// types never fail the endpoint.
	if event.Type != stripe.EventCheckoutSessionCompleted {
		o.logger.Debug().Str("event_type", event.Type).Msg("ignoring webhook event")
		return nil
	}

	eventSession, err := event.Session()
	if err != nil || eventSession.ID == "" {
		return apperrors.BadRequest("invalid signature / payload")
	}

	// Step 3: a missing buyer id produces an orphan order, not an abort.
	userID := eventSession.Metadata[stripe.MetadataUserID]
	if userID == "" {
		userID = order.UnknownUserID
		o.logger.Warn().
			Str("session_id", eventSession.ID).
			Msg("completed session carries no user metadata")
	}

	// Step 4: re-fetch the authoritative session instead of trusting the
	// webhook payload's line items. Bounded, and outside any transaction.
	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	defer cancel()
	session, err := o.gateway.GetCheckoutSession(fetchCtx, eventSession.ID)
	if err != nil {
		return apperrors.Internal("fetch checkout session", err)
	}

	// Step 5: assemble the order from gateway-confirmed amounts.
	newOrder := buildOrder(userID, session)

	// Step 6: one transaction around order persist + cart clear.
	created, err := o.committer.CommitOrder(ctx, newOrder)
	if err != nil {
		return apperrors.Internal("commit order", err)
	}
	if !created {
		o.logger.Info().
			Str("session_id", session.ID).
			Msg("order already recorded for session, treating webhook as replay")
		return nil
	}

	o.logger.Info().
		Int64("order_id", newOrder.ID).
		Str("user_id", newOrder.UserID).
		Str("session_id", session.ID).
		Str("total", newOrder.TotalAmount.String()).
		Msg("order reconciled from completed checkout session")

	o.publishOrderCreated(ctx, newOrder)
	return nil
}

// PaymentOutcome returns the confirmation text for the success redirect.
func (o *Orchestrator) PaymentOutcome(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", apperrors.BadRequest("session_id is required")
	}
	session, err := o.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		var apiErr *stripe.APIError
		if errors.As(err, &apiErr) {
			return "", apperrors.Newf(apperrors.KindBadRequest, "payment gateway error: %s", apiErr.Message)
		}
		return "", apperrors.Internal("fetch checkout session", err)
	}
	if session.PaymentStatus != "paid" {
		return "Payment not confirmed", nil
	}
	return "Payment successful!", nil
}

func buildOrder(userID string, session *stripe.CheckoutSession) *order.Order {
	o := &order.Order{
		UserID:        userID,
		TotalAmount:   fromMinorUnits(session.AmountTotal),
		Currency:      session.Currency,
		PaymentMethod: order.PaymentMethodCard,
		PaymentToken:  session.ID,
		PaymentStatus: session.PaymentStatus,
	}
	if session.LineItems == nil {
		return o
	}
	for _, line := range session.LineItems.Data {
		item := order.Item{
			ProductID: order.UnknownProductID,
			Quantity:  int(line.Quantity),
		}
		if line.Price != nil {
			item.UnitPrice = fromMinorUnits(line.Price.UnitAmount)
			if line.Price.Product != nil {
				if raw, ok := line.Price.Product.Metadata[stripe.MetadataProductID]; ok {
					if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
						item.ProductID = id
					}
				}
			}
		}
		o.Items = append(o.Items, item)
	}
	return o
}

func (o *Orchestrator) publishOrderCreated(ctx context.Context, newOrder *order.Order) {
	if o.publisher == nil {
		return
	}
	event := OrderCreated{
		OrderID:     newOrder.ID,
		UserID:      newOrder.UserID,
		TotalAmount: newOrder.TotalAmount.String(),
		Currency:    newOrder.Currency,
		SessionID:   newOrder.PaymentToken,
		CreatedAt:   time.Now().UTC(),
	}
	// Best effort: a lost event never fails an already-committed order.
	if err := o.publisher.Publish(ctx, newOrder.PaymentToken, event); err != nil {
		o.logger.Error().Err(err).
			Int64("order_id", newOrder.ID).
			Msg("failed to publish order created event")
	}
}

// toMinorUnits converts a decimal price to integer minor currency units.
func toMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// fromMinorUnits converts a gateway integer amount back to a 2-digit decimal.
func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
