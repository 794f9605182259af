package engine

import (
	"time"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// Recorder receives operation and run observations for live telemetry.
// A nil Recorder disables telemetry; the audit log remains the durable record.
type Recorder interface {
	// ObserveOperation records one finished load operation. err is nil on
	// success.
	ObserveOperation(spec *dvload.TargetTableSpec, metrics dvload.OperationMetrics, err error)

	// ObserveRun records the total duration of a completed run.
	ObserveRun(d time.Duration, err error)
}
