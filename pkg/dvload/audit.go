package dvload

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LogLevel is the severity of an audit entry.
type LogLevel string

const (
	LevelInfo  LogLevel = "INFO"
	LevelError LogLevel = "ERROR"
)

// LogEntry is one row of the append-only audit table. The thirteen columns
// are a fixed contract with external consumers and must be reproduced
// exactly. Entries are written once and never read back by the engine.
type LogEntry struct {
	LogTimestamp  time.Time
	Level         LogLevel
	ExecutionUnit uuid.UUID
	Project       string
	Application   string
	Environment   string

	// LoadTimestamp is nil for runs bound to the null marker.
	LoadTimestamp *time.Time

	StatementName  string
	TaskName       string
	TargetDatabase string
	TargetSchema   string
	TargetTable    string
	Message        string
}

// AuditLogger appends structured audit entries to a durable, append-only log
// store and mirrors them to the live console. The durable append must succeed
// or the call fails (wrapping ErrLogging); the console mirror is best-effort.
//
// Implementations must be safe for concurrent writers across independent runs.
type AuditLogger interface {
	// Log appends one entry. Statement/table identifiers may be empty if a
	// failure occurred before they were known.
	Log(ctx context.Context, level LogLevel, statementName, targetDatabase, targetSchema, targetTable, message string) error
}
