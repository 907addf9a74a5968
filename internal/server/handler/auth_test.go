package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/averith/stocktrack/internal/domain"
)

type fakeAuthService struct {
	signupErr error
	loginUser domain.User
	loginErr  error
}

func (f *fakeAuthService) Signup(_ context.Context, username, password string) error {
	return f.signupErr
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (domain.User, error) {
	return f.loginUser, f.loginErr
}

func newAuthMux(svc AuthService) *http.ServeMux {
	h := NewAuthHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	return mux
}

func TestSignupHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		signupErr  error
		wantStatus int
	}{
		{"success", `{"username":"alice","password":"pw"}`, nil, http.StatusOK},
		{"duplicate", `{"username":"alice","password":"pw"}`, domain.ErrUserExists, http.StatusBadRequest},
		{"missing fields", `{"username":"","password":""}`, domain.ErrInvalidCredentials, http.StatusBadRequest},
		{"bad body", `{"username"`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newAuthMux(&fakeAuthService{signupErr: tt.signupErr})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newAuthMux(&fakeAuthService{
				loginUser: domain.User{Username: "alice"},
				loginErr:  tt.loginErr,
			})

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
				strings.NewReader(`{"username":"alice","password":"pw"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && !strings.Contains(rec.Body.String(), `"alice"`) {
				t.Errorf("body = %s, want username in response", rec.Body.String())
			}
			// The password hash must never appear in a login response.
			if strings.Contains(rec.Body.String(), "passwordHash") {
				t.Errorf("body = %s, leaks password hash", rec.Body.String())
			}
		})
	}
}
