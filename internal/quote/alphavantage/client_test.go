package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPriceParsesGlobalQuote(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"function": q.Get("function"),
			"symbol":   q.Get("symbol"),
			"apikey":   q.Get("apikey"),
		}
		w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "AAPL",
				"05. price": "181.2500"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)

	price, err := client.Price(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if price != 181.25 {
		t.Errorf("price = %v, want 181.25", price)
	}
	if gotQuery["function"] != "GLOBAL_QUOTE" || gotQuery["symbol"] != "AAPL" || gotQuery["apikey"] != "test-key" {
		t.Errorf("query = %v", gotQuery)
	}
}

func TestPriceErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "empty global quote",
			handler: func(w http.ResponseWriter, r *http.Request) {
				// The API reports unknown symbols and throttling this way.
				w.Write([]byte(`{"Global Quote": {}}`))
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Global Quote":`))
			},
		},
		{
			name: "non-numeric price",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Global Quote": {"05. price": "n/a"}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, "test-key", time.Second)
			if _, err := client.Price(context.Background(), "AAPL"); err == nil {
				t.Error("Price() error = nil, want error")
			}
		})
	}
}

func TestPriceUnreachableHost(t *testing.T) {
	// Point at a closed server so the transport fails fast.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	if _, err := client.Price(context.Background(), "AAPL"); err == nil {
		t.Error("Price() error = nil, want transport error")
	}
}
