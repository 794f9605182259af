package dvload

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the database operations the load engine and the
// audit logger need. The interface decouples the public API from pgx-specific
// types while keeping the CommandTag, which carries the inserted-row count.
//
// Thread-Safety: Implementations should follow their underlying connection's
// thread-safety guarantees. Connection pool implementations are typically
// safe for concurrent use.
type DBConnection interface {
	// Exec executes a statement without returning any rows.
	// Returns CommandTag containing information about the statement execution.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Always returns a non-nil Row. Errors are deferred until Row's Scan
	// method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Row represents a single row returned by QueryRow.
// This interface decouples from pgx.Row.
type Row interface {
	// Scan reads the values from the row into dest values.
	// Returns an error if no row was found or if the scan fails.
	Scan(dest ...any) error
}
