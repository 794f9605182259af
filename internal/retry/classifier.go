package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes for transient conditions
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	// Class 40 - Transaction Rollback
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"

	// Class 55 - Object Not In Prerequisite State
	pgCodeLockNotAvailable = "55P03"
)

// PostgreSQLErrorClassifier implements dvload.ErrorClassifier for
// PostgreSQL-specific errors.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return c.isTransientPgError(pgErr)
	}

	if c.isNetworkError(err) {
		return true
	}

	return c.isConnectionError(err)
}

// isTransientPgError checks PostgreSQL error codes for transient conditions.
func (c *PostgreSQLErrorClassifier) isTransientPgError(pgErr *pgconn.PgError) bool {
	code := pgErr.Code

	// Class 08 - Connection Exception
	// Class 53 - Insufficient Resources
	// Class 57 - Operator Intervention (admin shutdown, cannot connect now, etc.)
	if strings.HasPrefix(code, "08") ||
		strings.HasPrefix(code, "53") ||
		strings.HasPrefix(code, "57") {
		return true
	}

	switch code {
	case pgCodeSerializationFailure,
		pgCodeDeadlockDetected,
		pgCodeLockNotAvailable:
		return true
	}

	return false
}

// isNetworkError checks for network-level errors.
func (c *PostgreSQLErrorClassifier) isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}

		if opErr.Err != nil {
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
				errors.Is(opErr.Err, syscall.ECONNRESET) ||
				errors.Is(opErr.Err, syscall.ENETUNREACH) ||
				errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
				return true
			}
		}
	}

	return false
}

// isConnectionError checks for connection-related errors from pgconn.
func (c *PostgreSQLErrorClassifier) isConnectionError(err error) bool {
	errMsg := strings.ToLower(err.Error())

	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"connection failure",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"too many connections",
		"server closed the connection",
		"unexpected eof",
		"connection pool exhausted",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
