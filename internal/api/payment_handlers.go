package api

import (
	"context"
	"io"
	"net/http"

	"github.com/example/ec-shop/internal/api/middleware"
	"github.com/example/ec-shop/internal/apperrors"
)

// maxWebhookBody bounds how much of a webhook payload is read before
// signature verification.
const maxWebhookBody = 1 << 20

// CheckoutService is the checkout surface the payment endpoints depend on.
type CheckoutService interface {
	CreateSession(ctx context.Context, userID, successURL, cancelURL string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
	PaymentOutcome(ctx context.Context, sessionID string) (string, error)
}

// PaymentHandlers serves checkout-session creation, the gateway webhook
// and the browser redirect endpoints.
type PaymentHandlers struct {
	checkout CheckoutService
	baseURL  string
}

func NewPaymentHandlers(checkout CheckoutService, baseURL string) *PaymentHandlers {
	return &PaymentHandlers{checkout: checkout, baseURL: baseURL}
}

type createSessionResponse struct {
	URL string `json:"url"`
}

func (h *PaymentHandlers) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	// {CHECKOUT_SESSION_ID} is substituted by the gateway on redirect.
	successURL := h.baseURL + "/api/v1/payment/payment-success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := h.baseURL + "/api/v1/payment/payment-cancelled"

	url, err := h.checkout.CreateSession(r.Context(), middleware.UserID(r.Context()), successURL, cancelURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, createSessionResponse{URL: url})
}

func (h *PaymentHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, apperrors.BadRequest("unreadable payload"))
		return
	}

	if err := h.checkout.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func (h *PaymentHandlers) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	msg, err := h.checkout.PaymentOutcome(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondText(w, http.StatusOK, msg)
}

func (h *PaymentHandlers) PaymentCancelled(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, "Payment cancelled.")
}
