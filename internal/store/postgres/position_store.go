package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/averith/stocktrack/internal/domain"
)

// PositionStore implements domain.PositionStore using PostgreSQL. Rows are
// keyed by (username, symbol) with symbol stored in its normalized
// (uppercased) form.
type PositionStore struct {
	pool *pgxpool.Pool
}

// NewPositionStore creates a new PositionStore backed by the given
// connection pool.
func NewPositionStore(pool *pgxpool.Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// GetAll returns every position held by the user, keyed by symbol.
func (s *PositionStore) GetAll(ctx context.Context, username string) (map[string]domain.Position, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT symbol, quantity, avg_cost FROM portfolio WHERE username = $1`,
		username)
	if err != nil {
		return nil, fmt.Errorf("postgres: get positions for %s: %w", username, err)
	}
	defer rows.Close()

	positions := make(map[string]domain.Position)
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.Symbol, &p.Quantity, &p.AvgCost); err != nil {
			return nil, fmt.Errorf("postgres: scan position for %s: %w", username, err)
		}
		positions[p.Symbol] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate positions for %s: %w", username, err)
	}
	return positions, nil
}

// Get returns the position for (username, symbol), or domain.ErrNotFound.
func (s *PositionStore) Get(ctx context.Context, username, symbol string) (domain.Position, error) {
	var p domain.Position
	err := s.pool.QueryRow(ctx,
		`SELECT symbol, quantity, avg_cost FROM portfolio WHERE username = $1 AND symbol = $2`,
		username, symbol,
	).Scan(&p.Symbol, &p.Quantity, &p.AvgCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Position{}, domain.ErrNotFound
		}
		return domain.Position{}, fmt.Errorf("postgres: get position %s/%s: %w", username, symbol, err)
	}
	return p, nil
}

// Upsert inserts or replaces the position for (username, pos.Symbol).
func (s *PositionStore) Upsert(ctx context.Context, username string, pos domain.Position) error {
	const query = `
		INSERT INTO portfolio (username, symbol, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (username, symbol) DO UPDATE SET
			quantity   = EXCLUDED.quantity,
			avg_cost   = EXCLUDED.avg_cost,
			updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query, username, pos.Symbol, pos.Quantity, pos.AvgCost)
	if err != nil {
		return fmt.Errorf("postgres: upsert position %s/%s: %w", username, pos.Symbol, err)
	}
	return nil
}

// Delete removes the position for (username, symbol).
func (s *PositionStore) Delete(ctx context.Context, username, symbol string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM portfolio WHERE username = $1 AND symbol = $2`,
		username, symbol)
	if err != nil {
		return fmt.Errorf("postgres: delete position %s/%s: %w", username, symbol, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Compile-time interface check.
var _ domain.PositionStore = (*PositionStore)(nil)
