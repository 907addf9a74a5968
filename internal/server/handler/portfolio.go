package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/averith/stocktrack/internal/domain"
)

// PortfolioService defines the methods the portfolio handler requires.
type PortfolioService interface {
	Buy(ctx context.Context, username string, trade domain.Trade) error
	Sell(ctx context.Context, username string, trade domain.Trade) error
	Portfolio(ctx context.Context, username string) (map[string]domain.Holding, error)
}

// PortfolioHandler serves portfolio-related HTTP endpoints.
type PortfolioHandler struct {
	portfolio PortfolioService
	logger    *slog.Logger
}

// NewPortfolioHandler creates a PortfolioHandler with the given service and logger.
func NewPortfolioHandler(portfolio PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolio: portfolio,
		logger:    logger,
	}
}

// Buy records a purchase lot for the user.
// POST /api/portfolio/{username}/add
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username path parameter required")
		return
	}

	var trade domain.Trade
	if err := decodeJSON(r, &trade); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.portfolio.Buy(r.Context(), username, trade)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "stock added"})
	case errors.Is(err, domain.ErrInvalidTrade):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "handler: buy failed",
			slog.String("username", username),
			slog.String("symbol", trade.Symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to add stock")
	}
}

// Sell reduces or removes a position for the user.
// POST /api/portfolio/{username}/sell
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username path parameter required")
		return
	}

	var trade domain.Trade
	if err := decodeJSON(r, &trade); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.portfolio.Sell(r.Context(), username, trade)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "stock sold"})
	case errors.Is(err, domain.ErrPositionNotFound):
		writeError(w, http.StatusBadRequest, "stock not found in portfolio")
	case errors.Is(err, domain.ErrInsufficientQuantity):
		writeError(w, http.StatusBadRequest, "cannot sell more shares than owned")
	case errors.Is(err, domain.ErrInvalidTrade):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "handler: sell failed",
			slog.String("username", username),
			slog.String("symbol", trade.Symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to sell stock")
	}
}

// Portfolio returns the user's materialized portfolio snapshot.
// GET /api/portfolio/{username}
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username path parameter required")
		return
	}

	holdings, err := h.portfolio.Portfolio(r.Context(), username)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get portfolio failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load portfolio")
		return
	}

	if holdings == nil {
		holdings = map[string]domain.Holding{}
	}
	writeJSON(w, http.StatusOK, holdings)
}
