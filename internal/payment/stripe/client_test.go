package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateCheckoutSession(t *testing.T) {
	var gotForm map[string][]string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_123","url":"https://pay.example/cs_123"}`))
	}))
	defer server.Close()

	client := NewClient("sk_test_key", server.URL)
	session, err := client.CreateCheckoutSession(context.Background(), SessionParams{
		SuccessURL: "https://shop/success",
		CancelURL:  "https://shop/cancel",
		Currency:   "eur",
		UserID:     "user-1",
		LineItems: []LineItemParams{
			{Name: "Widget", Description: "A widget", UnitAmount: 500, Quantity: 2, ProductID: 7},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://pay.example/cs_123", session.URL)
	assert.Equal(t, "Bearer sk_test_key", gotAuth)

	assert.Equal(t, "payment", gotForm["mode"][0])
	assert.Equal(t, "card", gotForm["payment_method_types[0]"][0])
	assert.Equal(t, "https://shop/success", gotForm["success_url"][0])
	assert.Equal(t, "https://shop/cancel", gotForm["cancel_url"][0])
	assert.Equal(t, "user-1", gotForm["metadata[user_id]"][0])
	assert.Equal(t, "2", gotForm["line_items[0][quantity]"][0])
	assert.Equal(t, "eur", gotForm["line_items[0][price_data][currency]"][0])
	assert.Equal(t, "500", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "Widget", gotForm["line_items[0][price_data][product_data][name]"][0])
	assert.Equal(t, "7", gotForm["line_items[0][price_data][product_data][metadata][product_id]"][0])
}

func TestClient_GetCheckoutSession_ExpandsLineItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_123", r.URL.Path)
		q := r.URL.Query()
		assert.ElementsMatch(t,
			[]string{"line_items", "line_items.data.price.product"},
			[]string{q.Get("expand[0]"), q.Get("expand[1]")})

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cs_123",
			"amount_total": 2000,
			"currency": "eur",
			"payment_status": "paid",
			"metadata": {"user_id": "user-1"},
			"line_items": {"data": [
				{"quantity": 2, "price": {"unit_amount": 500, "product": {"metadata": {"product_id": "7"}}}}
			]}
		}`))
	}))
	defer server.Close()

	client := NewClient("sk_test_key", server.URL)
	session, err := client.GetCheckoutSession(context.Background(), "cs_123")

	require.NoError(t, err)
	assert.Equal(t, int64(2000), session.AmountTotal)
	assert.Equal(t, "eur", session.Currency)
	assert.Equal(t, "paid", session.PaymentStatus)
	assert.Equal(t, "user-1", session.Metadata["user_id"])
	require.NotNil(t, session.LineItems)
	require.Len(t, session.LineItems.Data, 1)
	assert.Equal(t, int64(2), session.LineItems.Data[0].Quantity)
	assert.Equal(t, int64(500), session.LineItems.Data[0].Price.UnitAmount)
	assert.Equal(t, "7", session.LineItems.Data[0].Price.Product.Metadata["product_id"])
}

func TestClient_GatewayErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"parameter_missing","message":"Missing required param: cancel_url."}}`))
	}))
	defer server.Close()

	client := NewClient("sk_test_key", server.URL)
	_, err := client.CreateCheckoutSession(context.Background(), SessionParams{
		SuccessURL: "https://shop/success",
		CancelURL:  "https://shop/cancel",
	})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_request_error", apiErr.Type)
	assert.Equal(t, "parameter_missing", apiErr.Code)
	assert.Contains(t, apiErr.Message, "cancel_url")
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("upstream timeout"))
	}))
	defer server.Close()

	client := NewClient("sk_test_key", server.URL)
	_, err := client.GetCheckoutSession(context.Background(), "cs_1")

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "an undecodable body is not a gateway rejection")
}
