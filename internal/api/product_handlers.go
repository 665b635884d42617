package api

import (
	"net/http"
	"strconv"

	"github.com/example/ec-shop/internal/apperrors"
	"github.com/example/ec-shop/internal/domain/product"
	"github.com/go-chi/chi/v5"
)

type ProductHandlers struct {
	products *product.Service
}

func NewProductHandlers(products *product.Service) *ProductHandlers {
	return &ProductHandlers{products: products}
}

func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := product.Filter{
		Name:    q.Get("name"),
		OrderBy: q.Get("order_by"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	result, err := h.products.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var in product.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var in product.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// pathID parses a numeric chi URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.BadRequest("invalid id")
	}
	return id, nil
}
