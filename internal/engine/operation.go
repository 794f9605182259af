package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// Loader executes single vault load operations. One Loader serves a whole
// run: the connection, audit logger and load timestamp are fixed, each Load
// call supplies the spec.
type Loader struct {
	conn     dvload.DBConnection
	audit    dvload.AuditLogger
	console  dvload.Logger
	recorder Recorder
	ts       dvload.LoadTimestamp
}

// NewLoader creates a Loader for one run. recorder may be nil to disable
// telemetry. Panics if conn, audit or console is nil: these are programmer
// errors that should fail loudly at startup.
func NewLoader(conn dvload.DBConnection, audit dvload.AuditLogger, console dvload.Logger, recorder Recorder, ts dvload.LoadTimestamp) *Loader {
	if conn == nil {
		panic("conn cannot be nil")
	}
	if audit == nil {
		panic("audit cannot be nil")
	}
	if console == nil {
		panic("console cannot be nil")
	}
	return &Loader{
		conn:     conn,
		audit:    audit,
		console:  console,
		recorder: recorder,
		ts:       ts,
	}
}

// Load executes one insert-only batch transfer per the spec and returns its
// metrics. Every call produces exactly one terminal audit entry: INFO with
// the serialized metrics on success, ERROR with the failure description
// otherwise. Errors are never swallowed; after the ERROR entry is appended
// the original failure propagates, wrapping dvload.ErrLoadStatement. A zero
// row delta is success, not an error.
func (l *Loader) Load(ctx context.Context, spec *dvload.TargetTableSpec) (dvload.OperationMetrics, error) {
	if err := spec.Validate(); err != nil {
		return dvload.OperationMetrics{}, l.fail(ctx, spec, err)
	}

	key := spec.OperationKey()
	sql := BuildInsertStatement(spec, l.ts)
	l.console.Verbose("executing %s:\n%s", key, sql)

	start := time.Now()
	tag, err := l.conn.Exec(ctx, sql)
	if err != nil {
		loadErr := fmt.Errorf("load statement %q failed: %w: %w", key, dvload.ErrLoadStatement, err)
		return dvload.OperationMetrics{}, l.fail(ctx, spec, loadErr)
	}

	metrics := dvload.OperationMetrics{
		InsertedRows: tag.RowsAffected(),
		Duration:     time.Since(start),
		CommandTag:   tag.String(),
	}

	if err := l.audit.Log(ctx, dvload.LevelInfo, key,
		spec.TargetDatabase, spec.TargetSchema, spec.TargetTable, serializeMetrics(metrics)); err != nil {
		return dvload.OperationMetrics{}, err
	}

	if l.recorder != nil {
		l.recorder.ObserveOperation(spec, metrics, nil)
	}

	return metrics, nil
}

// fail appends the terminal ERROR entry and returns the original failure.
// If the audit append itself fails, both errors surface joined: the audit
// trail is a required side effect, but the load failure must not be masked.
func (l *Loader) fail(ctx context.Context, spec *dvload.TargetTableSpec, loadErr error) error {
	key := ""
	if spec.TargetDatabase != "" && spec.TargetSchema != "" && spec.TargetTable != "" {
		key = spec.OperationKey()
	}

	auditErr := l.audit.Log(ctx, dvload.LevelError, key,
		spec.TargetDatabase, spec.TargetSchema, spec.TargetTable, loadErr.Error())

	if l.recorder != nil {
		l.recorder.ObserveOperation(spec, dvload.OperationMetrics{}, loadErr)
	}

	if auditErr != nil {
		return errors.Join(loadErr, auditErr)
	}
	return loadErr
}

// serializeMetrics renders operation metrics for the audit message column.
func serializeMetrics(m dvload.OperationMetrics) string {
	data, err := json.Marshal(m)
	if err != nil {
		// OperationMetrics contains only scalars; marshalling cannot
		// realistically fail, but the audit entry must never be lost.
		return fmt.Sprintf("inserted_rows=%d", m.InsertedRows)
	}
	return string(data)
}
