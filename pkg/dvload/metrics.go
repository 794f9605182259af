package dvload

import "time"

// OperationMetrics captures the row-level outcome of one load operation.
type OperationMetrics struct {
	// InsertedRows is the number of rows the insert statement reported.
	InsertedRows int64 `json:"inserted_rows"`

	// Duration is how long the statement took against the query engine.
	Duration time.Duration `json:"duration_ns"`

	// CommandTag is the engine-reported statement summary, passed through
	// opaquely (e.g. "INSERT 0 3").
	CommandTag string `json:"command_tag"`
}

// RunMetrics maps each operation's key (see TargetTableSpec.OperationKey)
// to its metrics. It is the run's result payload. When a run aborts, the
// metrics accumulated so far are lost with it; the audit log remains the
// record for completed operations.
type RunMetrics map[string]OperationMetrics
