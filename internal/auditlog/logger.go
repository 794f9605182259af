package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// TableAuditLogger implements dvload.AuditLogger against a PostgreSQL table.
// The run identity (execution unit, project, application, environment, load
// timestamp, task name) is fixed at construction; each Log call supplies only
// the operation-specific columns.
//
// Thread-Safety: safe for concurrent use when the underlying DBConnection is.
type TableAuditLogger struct {
	conn    dvload.DBConnection
	console dvload.Logger
	run     dvload.LoadRun

	// insertSQL is built once at construction from the validated schema and
	// table names; entry values are always bound as parameters.
	insertSQL string
}

// NewTableAuditLogger creates an audit logger writing to schema.table.
// Schema and table must be plain identifiers. Panics if conn or console is
// nil: these are programmer errors that should fail loudly at startup.
func NewTableAuditLogger(conn dvload.DBConnection, console dvload.Logger, run dvload.LoadRun, schema, table string) (*TableAuditLogger, error) {
	if conn == nil {
		panic("conn cannot be nil")
	}
	if console == nil {
		panic("console cannot be nil")
	}

	if err := validateIdentifier("audit schema", schema); err != nil {
		return nil, fmt.Errorf("%w: %w", dvload.ErrInvalidConfig, err)
	}
	if err := validateIdentifier("audit table", table); err != nil {
		return nil, fmt.Errorf("%w: %w", dvload.ErrInvalidConfig, err)
	}

	return &TableAuditLogger{
		conn:      conn,
		console:   console,
		run:       run,
		insertSQL: insertStatement(schema, table),
	}, nil
}

// Log appends one entry to the audit table and mirrors it to the console.
// The durable append must succeed; a failure wraps dvload.ErrLogging. The
// console mirror cannot fail the call.
func (l *TableAuditLogger) Log(ctx context.Context, level dvload.LogLevel, statementName, targetDatabase, targetSchema, targetTable, message string) error {
	entry := dvload.LogEntry{
		LogTimestamp:   time.Now().UTC(),
		Level:          level,
		ExecutionUnit:  l.run.ExecutionUnit,
		Project:        l.run.Project,
		Application:    l.run.Application,
		Environment:    l.run.Environment,
		StatementName:  statementName,
		TaskName:       l.run.TaskName,
		TargetDatabase: targetDatabase,
		TargetSchema:   targetSchema,
		TargetTable:    targetTable,
		Message:        message,
	}
	if l.run.LoadTimestamp.Valid {
		ts := l.run.LoadTimestamp.Time
		entry.LoadTimestamp = &ts
	}

	l.mirror(entry)

	_, err := l.conn.Exec(ctx, l.insertSQL,
		entry.LogTimestamp,
		string(entry.Level),
		entry.ExecutionUnit,
		entry.Project,
		entry.Application,
		entry.Environment,
		entry.LoadTimestamp,
		entry.StatementName,
		entry.TaskName,
		entry.TargetDatabase,
		entry.TargetSchema,
		entry.TargetTable,
		entry.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry %q: %w: %w", statementName, dvload.ErrLogging, err)
	}

	return nil
}

// mirror writes the entry to the live console.
func (l *TableAuditLogger) mirror(entry dvload.LogEntry) {
	name := entry.StatementName
	if name == "" {
		name = "run"
	}

	if entry.Level == dvload.LevelError {
		l.console.Error("%s: %s", name, entry.Message)
		return
	}
	l.console.Info("%s: %s", name, entry.Message)
}

// Verify TableAuditLogger implements AuditLogger at compile time
var _ dvload.AuditLogger = (*TableAuditLogger)(nil)
