package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/ec-shop/internal/apperrors"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// respondError maps the error taxonomy onto HTTP statuses. Internal errors
// keep their details out of the response body.
func respondError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)

	status := http.StatusInternalServerError
	message := "internal server error"
	switch kind {
	case apperrors.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case apperrors.KindBadRequest:
		status, message = http.StatusBadRequest, err.Error()
	case apperrors.KindUnauthorized:
		status, message = http.StatusUnauthorized, err.Error()
	case apperrors.KindForbidden:
		status, message = http.StatusForbidden, err.Error()
	case apperrors.KindConflict:
		status, message = http.StatusConflict, err.Error()
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.KindBadRequest, "invalid request body", err)
	}
	return nil
}
