// Package alphavantage is the REST client for the Alpha Vantage
// GLOBAL_QUOTE endpoint, which supplies the latest traded price for an
// equity symbol.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client calls the Alpha Vantage quote API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Client.
//
// baseURL is the API root, e.g. "https://www.alphavantage.co".
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// globalQuoteResponse mirrors the GLOBAL_QUOTE payload. The API uses
// numbered field names inside a "Global Quote" object.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

// Price returns the latest traded price for symbol. Any transport failure,
// non-200 status, or missing/malformed payload field is returned as an
// error; the caller decides how to degrade.
func (c *Client) Price(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	reqURL := c.baseURL + "/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: build request for %s: %w", symbol, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: get quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("alphavantage: quote for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: read quote body for %s: %w", symbol, err)
	}

	var payload globalQuoteResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("alphavantage: decode quote for %s: %w", symbol, err)
	}

	// The API signals unknown symbols and throttling with an empty
	// "Global Quote" object rather than an error status.
	if payload.GlobalQuote.Price == "" {
		return 0, fmt.Errorf("alphavantage: quote for %s: missing price in response", symbol)
	}

	price, err := strconv.ParseFloat(payload.GlobalQuote.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: parse price for %s: %w", symbol, err)
	}

	return price, nil
}
