package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/averith/stocktrack/internal/domain"
)

// AuthService defines the methods the auth handler requires.
type AuthService interface {
	Signup(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (domain.User, error)
}

// AuthHandler serves signup and login endpoints.
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler with the given service and logger.
func NewAuthHandler(auth AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// credentialsRequest is the request body for signup and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup registers a new account.
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.auth.Signup(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "user registered successfully"})
	case errors.Is(err, domain.ErrUserExists):
		writeError(w, http.StatusBadRequest, "username already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "username and password are required")
	default:
		h.logger.ErrorContext(r.Context(), "handler: signup failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to register user")
	}
}

// Login authenticates a username/password pair.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, user)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		h.logger.ErrorContext(r.Context(), "handler: login failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to log in")
	}
}
