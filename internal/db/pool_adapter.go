package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/dvload/pkg/dvload"
)

// PoolAdapter adapts *pgxpool.Pool to implement the dvload.DBConnection
// interface. This decouples the internal implementation from the public API,
// preventing direct exposure of pgx-specific types.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter creates a new PoolAdapter wrapping the given pool.
func NewPoolAdapter(pool *pgxpool.Pool) dvload.DBConnection {
	return &PoolAdapter{pool: pool}
}

// Exec executes a query without returning any rows.
func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) dvload.Row {
	return &rowAdapter{row: p.pool.QueryRow(ctx, sql, args...)}
}

// rowAdapter adapts pgx.Row to implement dvload.Row.
type rowAdapter struct {
	row interface{ Scan(...any) error }
}

// Scan reads the values from the row into dest values.
func (r *rowAdapter) Scan(dest ...any) error {
	return r.row.Scan(dest...)
}

// Verify PoolAdapter implements DBConnection at compile time
var _ dvload.DBConnection = (*PoolAdapter)(nil)
