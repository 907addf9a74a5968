package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/averith/stocktrack/internal/quote"
)

// QuoteGateway defines the quote lookup the stock handler requires.
type QuoteGateway interface {
	Price(ctx context.Context, symbol string) quote.Quote
}

// StockHandler serves single-symbol quote lookups.
type StockHandler struct {
	quotes QuoteGateway
	logger *slog.Logger
}

// NewStockHandler creates a StockHandler with the given gateway and logger.
func NewStockHandler(quotes QuoteGateway, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		quotes: quotes,
		logger: logger,
	}
}

// Price returns the live price for one symbol, or 404 when the quote
// source cannot supply it.
// GET /api/stocks/{symbol}/price
func (h *StockHandler) Price(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol path parameter required")
		return
	}

	q := h.quotes.Price(r.Context(), symbol)
	if !q.Available {
		writeError(w, http.StatusNotFound, "quote unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol": q.Symbol,
		"price":  q.Price,
	})
}
