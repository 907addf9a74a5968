package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/averith/stocktrack/internal/domain"
)

// fakePortfolioService returns canned results per method.
type fakePortfolioService struct {
	buyErr       error
	sellErr      error
	portfolio    map[string]domain.Holding
	portfolioErr error

	gotUsername string
	gotTrade    domain.Trade
}

func (f *fakePortfolioService) Buy(_ context.Context, username string, trade domain.Trade) error {
	f.gotUsername = username
	f.gotTrade = trade
	return f.buyErr
}

func (f *fakePortfolioService) Sell(_ context.Context, username string, trade domain.Trade) error {
	f.gotUsername = username
	f.gotTrade = trade
	return f.sellErr
}

func (f *fakePortfolioService) Portfolio(_ context.Context, username string) (map[string]domain.Holding, error) {
	f.gotUsername = username
	return f.portfolio, f.portfolioErr
}

// newPortfolioMux registers the handler on a mux with the production route
// patterns so r.PathValue works in tests.
func newPortfolioMux(svc PortfolioService) *http.ServeMux {
	h := NewPortfolioHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/portfolio/{username}/add", h.Buy)
	mux.HandleFunc("POST /api/portfolio/{username}/sell", h.Sell)
	mux.HandleFunc("GET /api/portfolio/{username}", h.Portfolio)
	return mux
}

func TestBuyHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		buyErr     error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"symbol":"AAPL","quantity":10,"price":100}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid body",
			body:       `{"symbol":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid trade",
			body:       `{"symbol":"AAPL","quantity":0,"price":100}`,
			buyErr:     domain.ErrInvalidTrade,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			body:       `{"symbol":"AAPL","quantity":10,"price":100}`,
			buyErr:     errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePortfolioService{buyErr: tt.buyErr}
			mux := newPortfolioMux(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/portfolio/alice/add", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK && svc.gotUsername != "alice" {
				t.Errorf("username = %q, want alice", svc.gotUsername)
			}
		})
	}
}

func TestSellHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		sellErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"position not found", domain.ErrPositionNotFound, http.StatusBadRequest},
		{"insufficient quantity", domain.ErrInsufficientQuantity, http.StatusBadRequest},
		{"invalid trade", domain.ErrInvalidTrade, http.StatusBadRequest},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePortfolioService{sellErr: tt.sellErr}
			mux := newPortfolioMux(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/portfolio/alice/sell",
				strings.NewReader(`{"symbol":"AAPL","quantity":5,"price":100}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestPortfolioHandlerReturnsSnapshot(t *testing.T) {
	svc := &fakePortfolioService{
		portfolio: map[string]domain.Holding{
			"AAPL": {Symbol: "AAPL", Quantity: 10, AvgCost: 100, CurrentPrice: 181.25},
			"MSFT": {Symbol: "MSFT", Quantity: 2, AvgCost: 350, CurrentPrice: 0},
		},
	}
	mux := newPortfolioMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/alice", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got map[string]domain.Holding
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(holdings) = %d, want 2", len(got))
	}
	if got["AAPL"].CurrentPrice != 181.25 {
		t.Errorf("AAPL current price = %v, want 181.25", got["AAPL"].CurrentPrice)
	}
	if got["MSFT"].CurrentPrice != 0 {
		t.Errorf("MSFT current price = %v, want 0", got["MSFT"].CurrentPrice)
	}
}

func TestPortfolioHandlerEmptySnapshot(t *testing.T) {
	mux := newPortfolioMux(&fakePortfolioService{portfolio: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/alice", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "{}" {
		t.Errorf("body = %q, want {}", body)
	}
}

func TestPortfolioHandlerStoreFailure(t *testing.T) {
	mux := newPortfolioMux(&fakePortfolioService{portfolioErr: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/alice", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
