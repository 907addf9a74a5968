// Package app provides top-level application lifecycle management for the
// stock tracker. It wires together all dependencies (stores, caches, quote
// gateway, services, HTTP server) and runs the server until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/averith/stocktrack/internal/config"
	"github.com/averith/stocktrack/internal/server"
	"github.com/averith/stocktrack/internal/server/handler"
	"github.com/averith/stocktrack/internal/service"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions that are called in reverse order on
// shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, builds the
// services and HTTP server, and blocks until the context is cancelled or
// the server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	// --- Services ---
	portfolioSvc := service.NewPortfolioService(
		deps.PositionStore,
		deps.QuoteGateway,
		deps.LockManager,
		a.cfg.Quote.MaxConcurrent,
		a.logger,
	)
	authSvc := service.NewAuthService(deps.UserStore, a.logger)

	// --- HTTP server ---
	srv := server.NewServer(
		server.Config{
			Port:               a.cfg.Server.Port,
			CORSOrigins:        a.cfg.Server.CORSOrigins,
			APIKey:             a.cfg.Server.APIKey,
			RateLimitPerMinute: a.cfg.Server.RateLimitPerMinute,
		},
		server.Handlers{
			Health:    handler.NewHealthHandler(a.logger),
			Auth:      handler.NewAuthHandler(authSvc, a.logger),
			Portfolio: handler.NewPortfolioHandler(portfolioSvc, a.logger),
			Stocks:    handler.NewStockHandler(deps.QuoteGateway, a.logger),
		},
		deps.RateLimiter,
		a.logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
