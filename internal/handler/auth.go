package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socialapi-dev/socialapi/internal/api"
	"github.com/socialapi-dev/socialapi/internal/errors"
)

// Register creates a new account and kicks off email confirmation.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := api.DecodeValidate(r.Body, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	if err := h.auth.Register(req.Email, req.Password); err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.DetailResponse{
		Detail: "Successfully signed up, please confirm your email",
	})
}

// Token is the login endpoint. It takes a form-encoded username/password
// pair and answers with a bearer access token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		api.WriteError(w, errors.BadRequest("Failed to parse form"))
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		api.WriteError(w, errors.BadRequest("Username and password are required"))
		return
	}

	accessToken, err := h.auth.Login(username, password)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// Confirm redeems the confirmation token from a registration email link.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	tokenStr := chi.URLParam(r, "token")

	if err := h.auth.Confirm(tokenStr); err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.DetailResponse{Detail: "Email confirmed"})
}
