package domain

import (
	"context"
	"time"
)

// PositionStore persists per-user positions keyed by normalized symbol.
// Implementations must propagate storage failures to the caller; the
// engine performs no implicit retry.
type PositionStore interface {
	// GetAll returns every position held by the user, keyed by symbol.
	GetAll(ctx context.Context, username string) (map[string]Position, error)
	// Get returns the position for (username, symbol), or ErrNotFound.
	Get(ctx context.Context, username, symbol string) (Position, error)
	// Upsert inserts or replaces the position for (username, pos.Symbol).
	Upsert(ctx context.Context, username string, pos Position) error
	// Delete removes the position for (username, symbol). It returns
	// ErrNotFound when no row was deleted.
	Delete(ctx context.Context, username, symbol string) error
}

// UserStore persists registered accounts.
type UserStore interface {
	// Create inserts a new user. It returns ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user User) error
	// GetByUsername returns the user, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (User, error)
}

// PriceCache provides fast access to recently fetched quotes.
type PriceCache interface {
	SetPrice(ctx context.Context, symbol string, price float64, ts time.Time) error
	// GetPrice returns the cached price and the time it was stored, or
	// ErrNotFound when the symbol has no cached quote.
	GetPrice(ctx context.Context, symbol string) (float64, time.Time, error)
}

// LockManager provides distributed locking for read-modify-write
// critical sections.
type LockManager interface {
	// Acquire obtains the lock for key with the given TTL. On success it
	// returns an unlock function that must be called to release the lock.
	// It returns ErrLockHeld when another party holds the lock.
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// RateLimiter provides distributed request rate limiting.
type RateLimiter interface {
	// Allow reports whether a request for key is permitted under a
	// sliding window of limit requests per window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
