package retry

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgreSQLErrorClassifier_Nil(t *testing.T) {
	c := NewPostgreSQLErrorClassifier()
	assert.False(t, c.IsTransient(nil))
}

func TestPostgreSQLErrorClassifier_PgErrorCodes(t *testing.T) {
	c := NewPostgreSQLErrorClassifier()

	tests := []struct {
		name      string
		code      string
		transient bool
	}{
		{"connection exception", "08000", true},
		{"connection does not exist", "08003", true},
		{"connection failure", "08006", true},
		{"too many connections", "53300", true},
		{"insufficient resources", "53000", true},
		{"admin shutdown", "57P01", true},
		{"cannot connect now", "57P03", true},
		{"serialization failure", "40001", true},
		{"deadlock detected", "40P01", true},
		{"lock not available", "55P03", true},
		{"syntax error", "42601", false},
		{"undefined table", "42P01", false},
		{"unique violation", "23505", false},
		{"not null violation", "23502", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pgconn.PgError{Code: tt.code, Message: tt.name}
			assert.Equal(t, tt.transient, c.IsTransient(err))
		})
	}
}

func TestPostgreSQLErrorClassifier_StringPatterns(t *testing.T) {
	c := NewPostgreSQLErrorClassifier()

	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"io timeout", errors.New("read tcp: i/o timeout"), true},
		{"no such host", errors.New("lookup db.example.com: no such host"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"server closed", errors.New("server closed the connection unexpectedly"), true},
		{"permission denied", errors.New("permission denied for schema vault"), false},
		{"plain error", errors.New("something went wrong"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, c.IsTransient(tt.err))
		})
	}
}

func TestPostgreSQLErrorClassifier_WrappedPgError(t *testing.T) {
	c := NewPostgreSQLErrorClassifier()

	inner := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	wrapped := errors.Join(errors.New("insert failed"), inner)

	assert.True(t, c.IsTransient(wrapped))
}
