// Package repository provides the PostgreSQL-backed stores.
// It is optional: the server falls back to the in-memory stores when no
// DATABASE_URL is configured.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database access methods.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			username     TEXT NOT NULL UNIQUE,
			secret_hash  TEXT NOT NULL,
			display_name TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reservations (
			id         TEXT PRIMARY KEY,
			lane_id    INTEGER NOT NULL,
			owner_id   TEXT NOT NULL REFERENCES users (id),
			start_at   TIMESTAMPTZ NOT NULL,
			end_at     TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			CHECK (start_at < end_at)
		);
		CREATE INDEX IF NOT EXISTS reservations_lane_idx ON reservations (lane_id, start_at);
		CREATE INDEX IF NOT EXISTS reservations_owner_idx ON reservations (owner_id, created_at);
	`

	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
