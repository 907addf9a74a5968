package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthDisabledWhenKeyEmpty(t *testing.T) {
	handler := Auth("")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when auth disabled", rec.Code)
	}
}

func TestAuthTokenValidation(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"valid bearer token", "Authorization", "Bearer secret-key", http.StatusOK},
		{"valid api key header", "X-API-Key", "secret-key", http.StatusOK},
		{"wrong token", "Authorization", "Bearer wrong", http.StatusUnauthorized},
		{"wrong api key", "X-API-Key", "wrong", http.StatusUnauthorized},
		{"malformed scheme", "Authorization", "Basic secret-key", http.StatusUnauthorized},
		{"missing token", "", "", http.StatusUnauthorized},
	}

	handler := Auth("secret-key")(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
