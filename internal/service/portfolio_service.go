// Package service contains the application services: the portfolio engine
// and account management. Services hold no durable state; everything lives
// behind the injected store and gateway interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/averith/stocktrack/internal/domain"
	"github.com/averith/stocktrack/internal/quote"
)

// QuoteGateway supplies live prices with failure absorption: lookups never
// error, they degrade to an unavailable Quote.
type QuoteGateway interface {
	Price(ctx context.Context, symbol string) quote.Quote
}

const (
	// lockTTL bounds how long a crashed writer can block a (user, symbol) key.
	lockTTL = 5 * time.Second
	// lockRetryInterval is the polling interval while waiting for a held lock.
	lockRetryInterval = 25 * time.Millisecond
)

// PortfolioService implements the position-management rules: merging buys
// into weighted-average cost, validating and applying sells, and
// materializing the portfolio with live prices. It is request-scoped and
// stateless between calls.
type PortfolioService struct {
	positions     domain.PositionStore
	quotes        QuoteGateway
	locks         domain.LockManager
	maxConcurrent int
	logger        *slog.Logger
}

// NewPortfolioService creates a PortfolioService with all required
// dependencies. maxConcurrent bounds the quote fan-out when materializing
// a portfolio; values below 1 are treated as 1.
func NewPortfolioService(
	positions domain.PositionStore,
	quotes QuoteGateway,
	locks domain.LockManager,
	maxConcurrent int,
	logger *slog.Logger,
) *PortfolioService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &PortfolioService{
		positions:     positions,
		quotes:        quotes,
		locks:         locks,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// validateTrade rejects trades that violate the engine preconditions.
func validateTrade(trade domain.Trade) error {
	if domain.NormalizeSymbol(trade.Symbol) == "" {
		return fmt.Errorf("%w: symbol must not be empty", domain.ErrInvalidTrade)
	}
	if trade.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidTrade)
	}
	if trade.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidTrade)
	}
	return nil
}

// Buy records a purchase lot for (username, trade.Symbol). A first buy
// creates the position; subsequent buys merge into it with quantity-
// weighted average cost. Exactly one store write is performed.
func (s *PortfolioService) Buy(ctx context.Context, username string, trade domain.Trade) error {
	if err := validateTrade(trade); err != nil {
		return err
	}
	symbol := domain.NormalizeSymbol(trade.Symbol)

	unlock, err := s.lockPosition(ctx, username, symbol)
	if err != nil {
		return err
	}
	defer unlock()

	existing, err := s.positions.Get(ctx, username, symbol)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("portfolio_service: load position %s/%s: %w", username, symbol, err)
	}

	pos := domain.Position{
		Symbol:   symbol,
		Quantity: trade.Quantity,
		AvgCost:  trade.Price,
	}
	if err == nil {
		// Merge the new lot into the existing position. The denominator is
		// always positive since both quantities are.
		newQty := existing.Quantity + trade.Quantity
		pos.Quantity = newQty
		pos.AvgCost = (existing.AvgCost*float64(existing.Quantity) + trade.Price*float64(trade.Quantity)) / float64(newQty)
	}

	if err := s.positions.Upsert(ctx, username, pos); err != nil {
		return fmt.Errorf("portfolio_service: persist buy %s/%s: %w", username, symbol, err)
	}

	s.logger.InfoContext(ctx, "portfolio_service: buy applied",
		slog.String("username", username),
		slog.String("symbol", symbol),
		slog.Int("quantity", pos.Quantity),
		slog.Float64("avg_cost", pos.AvgCost),
	)
	return nil
}

// Sell reduces or removes the position for (username, trade.Symbol). It
// fails with ErrPositionNotFound when the symbol was never held and with
// ErrInsufficientQuantity when the sell exceeds the held quantity; both
// are raised before any store mutation. Selling the exact held quantity
// deletes the position; a partial sell leaves the average cost untouched.
func (s *PortfolioService) Sell(ctx context.Context, username string, trade domain.Trade) error {
	if err := validateTrade(trade); err != nil {
		return err
	}
	symbol := domain.NormalizeSymbol(trade.Symbol)

	unlock, err := s.lockPosition(ctx, username, symbol)
	if err != nil {
		return err
	}
	defer unlock()

	existing, err := s.positions.Get(ctx, username, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPositionNotFound
		}
		return fmt.Errorf("portfolio_service: load position %s/%s: %w", username, symbol, err)
	}

	if trade.Quantity > existing.Quantity {
		return fmt.Errorf("%w: have %d, sell %d", domain.ErrInsufficientQuantity, existing.Quantity, trade.Quantity)
	}

	remaining := existing.Quantity - trade.Quantity
	if remaining == 0 {
		if err := s.positions.Delete(ctx, username, symbol); err != nil {
			return fmt.Errorf("portfolio_service: delete position %s/%s: %w", username, symbol, err)
		}
	} else {
		// A disposal does not change the cost basis of the remaining shares.
		updated := domain.Position{
			Symbol:   symbol,
			Quantity: remaining,
			AvgCost:  existing.AvgCost,
		}
		if err := s.positions.Upsert(ctx, username, updated); err != nil {
			return fmt.Errorf("portfolio_service: persist sell %s/%s: %w", username, symbol, err)
		}
	}

	s.logger.InfoContext(ctx, "portfolio_service: sell applied",
		slog.String("username", username),
		slog.String("symbol", symbol),
		slog.Int("sold", trade.Quantity),
		slog.Int("remaining", remaining),
	)
	return nil
}

// Portfolio materializes the user's full portfolio: every persisted
// position annotated with a live price. Quote lookups fan out concurrently
// with bounded parallelism; a symbol whose quote is unavailable gets
// CurrentPrice 0 without failing the snapshot. The store is not mutated.
func (s *PortfolioService) Portfolio(ctx context.Context, username string) (map[string]domain.Holding, error) {
	positions, err := s.positions.GetAll(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("portfolio_service: load portfolio for %s: %w", username, err)
	}

	holdings := make(map[string]domain.Holding, len(positions))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, pos := range positions {
		g.Go(func() error {
			q := s.quotes.Price(gctx, pos.Symbol)

			// An unavailable quote leaves CurrentPrice at 0 for this row only.
			h := domain.Holding{
				Symbol:   pos.Symbol,
				Quantity: pos.Quantity,
				AvgCost:  pos.AvgCost,
			}
			if q.Available {
				h.CurrentPrice = q.Price
			}

			mu.Lock()
			holdings[pos.Symbol] = h
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; Wait only collects the fan-out.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("portfolio_service: materialize portfolio for %s: %w", username, err)
	}

	return holdings, nil
}

// lockPosition serializes the read-modify-write section for one
// (username, symbol) key. It polls while the lock is held elsewhere so
// concurrent buys and sells on the same key cannot lose updates; distinct
// keys proceed in parallel.
func (s *PortfolioService) lockPosition(ctx context.Context, username, symbol string) (func(), error) {
	key := fmt.Sprintf("portfolio:%s:%s", username, symbol)

	for {
		unlock, err := s.locks.Acquire(ctx, key, lockTTL)
		if err == nil {
			return unlock, nil
		}
		if !errors.Is(err, domain.ErrLockHeld) {
			return nil, fmt.Errorf("portfolio_service: lock %s: %w", key, err)
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("portfolio_service: lock %s: %w", key, ctx.Err())
		case <-timer.C:
		}
	}
}
