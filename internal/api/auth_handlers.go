package api

import (
	"net/http"

	"github.com/example/ec-shop/internal/auth"
	"github.com/example/ec-shop/internal/domain/user"
)

// AuthHandlers serves registration, login and token refresh.
type AuthHandlers struct {
	users  *user.Service
	tokens *auth.TokenManager
}

func NewAuthHandlers(users *user.Service, tokens *auth.TokenManager) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	User   userResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	u, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	pair, err := h.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		User:   userResponse{ID: u.ID, Email: u.Email, Role: u.Role},
		Tokens: pair,
	})
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	pair, err := h.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		User:   userResponse{ID: u.ID, Email: u.Email, Role: u.Role},
		Tokens: pair,
	})
}

func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	userID, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		respondError(w, user.ErrBadCredential)
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	pair, err := h.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		User:   userResponse{ID: u.ID, Email: u.Email, Role: u.Role},
		Tokens: pair,
	})
}
