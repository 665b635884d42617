package api

import (
	"net/http"

	"github.com/example/ec-shop/internal/api/middleware"
	"github.com/example/ec-shop/internal/domain/cart"
)

type CartHandlers struct {
	carts *cart.Service
}

func NewCartHandlers(carts *cart.Service) *CartHandlers {
	return &CartHandlers{carts: carts}
}

func (h *CartHandlers) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.carts.Snapshot(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	err := h.carts.AddItem(r.Context(), middleware.UserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "item added"})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	err = h.carts.UpdateItem(r.Context(), middleware.UserID(r.Context()), itemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "item updated"})
}

func (h *CartHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		respondError(w, err)
		return
	}
	err = h.carts.RemoveItem(r.Context(), middleware.UserID(r.Context()), itemID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *CartHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), middleware.UserID(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
