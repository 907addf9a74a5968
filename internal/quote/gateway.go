// Package quote wraps the external price source behind a gateway that
// normalizes every failure mode into a single "unavailable" result.
package quote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/averith/stocktrack/internal/domain"
)

// Source supplies a live price for a symbol. Implementations return an
// error on any transport or parse failure.
type Source interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

// Quote is the result of a gateway lookup. Available is false when the
// source could not supply a price; Price is only meaningful when Available
// is true.
type Quote struct {
	Symbol    string
	Price     float64
	Available bool
	FetchedAt time.Time
}

// Gateway fetches live prices through a Source, caching results in a
// PriceCache. It never returns an error: source outages, timeouts, and
// cache failures all degrade to an unavailable Quote, so one bad symbol
// can never abort a portfolio snapshot.
type Gateway struct {
	source   Source
	cache    domain.PriceCache
	cacheTTL time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewGateway creates a Gateway. cache may be nil to disable caching.
// cacheTTL bounds how old a cached quote may be before it is refetched;
// timeout bounds each source call.
func NewGateway(source Source, cache domain.PriceCache, cacheTTL, timeout time.Duration, logger *slog.Logger) *Gateway {
	return &Gateway{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		timeout:  timeout,
		logger:   logger,
	}
}

// Price returns the current quote for symbol. The symbol is normalized
// before lookup so cache keys match store keys.
func (g *Gateway) Price(ctx context.Context, symbol string) Quote {
	symbol = domain.NormalizeSymbol(symbol)

	if q, ok := g.cached(ctx, symbol); ok {
		return q
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	price, err := g.source.Price(callCtx, symbol)
	if err != nil {
		g.logger.WarnContext(ctx, "quote: source unavailable",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		return Quote{Symbol: symbol}
	}

	now := time.Now().UTC()
	if g.cache != nil {
		// Cache writes are best-effort; a cache outage must not fail the quote.
		if cacheErr := g.cache.SetPrice(ctx, symbol, price, now); cacheErr != nil {
			g.logger.WarnContext(ctx, "quote: cache write failed",
				slog.String("symbol", symbol),
				slog.String("error", cacheErr.Error()),
			)
		}
	}

	return Quote{Symbol: symbol, Price: price, Available: true, FetchedAt: now}
}

// cached returns a fresh cached quote when one exists.
func (g *Gateway) cached(ctx context.Context, symbol string) (Quote, bool) {
	if g.cache == nil {
		return Quote{}, false
	}

	price, ts, err := g.cache.GetPrice(ctx, symbol)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			g.logger.WarnContext(ctx, "quote: cache read failed",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()),
			)
		}
		return Quote{}, false
	}

	if g.cacheTTL > 0 && time.Since(ts) > g.cacheTTL {
		return Quote{}, false
	}

	return Quote{Symbol: symbol, Price: price, Available: true, FetchedAt: ts}, true
}
