package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/dvload/internal/auditlog"
	"github.com/vvka-141/dvload/internal/db"
	"github.com/vvka-141/dvload/internal/params"
	"github.com/vvka-141/dvload/pkg/dvload"
)

// RunService implements dvload.Runner. It binds the load timestamp once,
// connects to the target database, and drives the configured load operations
// in order, folding their metrics into one RunMetrics result.
//
// The driver performs no recovery: the first failing operation aborts the
// run, earlier operations' inserts remain committed, and the metrics
// accumulated so far are lost with the run. The audit log is the record for
// completed operations of an aborted run.
type RunService struct {
	console  dvload.Logger
	recorder Recorder
}

// NewRunService creates a run driver. recorder may be nil to disable
// telemetry. Panics if console is nil.
func NewRunService(console dvload.Logger, recorder Recorder) *RunService {
	if console == nil {
		panic("console cannot be nil")
	}
	return &RunService{
		console:  console,
		recorder: recorder,
	}
}

// Run executes a vault load run per the configuration.
func (s *RunService) Run(ctx context.Context, config dvload.RunConfig) (dvload.RunMetrics, error) {
	start := time.Now()
	metrics, err := s.run(ctx, config)
	if s.recorder != nil {
		s.recorder.ObserveRun(time.Since(start), err)
	}
	return metrics, err
}

func (s *RunService) run(ctx context.Context, config dvload.RunConfig) (dvload.RunMetrics, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ts, err := params.BindLoadTimestamp(config.RawLoadTimestamp)
	if err != nil {
		return nil, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	connConfig, err := db.ParseConnectionString(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w: %w", dvload.ErrInvalidConfig, err)
	}
	connConfig.AuthMethod = config.AuthMethod
	connConfig.AzureTenantID = config.AzureTenantID
	connConfig.AzureClientID = config.AzureClientID
	connConfig.AzureClientSecret = config.AzureClientSecret
	connConfig.AWSRegion = config.AWSRegion
	connConfig.GoogleInstance = config.GoogleInstance
	if connConfig.AppName == "" {
		connConfig.AppName = "dvload"
	}

	connector, err := db.NewConnector(connConfig)
	if err != nil {
		return nil, err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dvload.ErrConnectionFailed, err)
	}
	defer pool.Close()
	if closer, ok := connector.(io.Closer); ok {
		defer closer.Close()
	}

	run := dvload.LoadRun{
		ExecutionUnit: uuid.New(),
		LoadTimestamp: ts,
		Project:       config.Project,
		Application:   config.Application,
		Environment:   config.Environment,
		TaskName:      config.TaskName,
	}
	s.console.Verbose("execution unit %s, load timestamp %s", run.ExecutionUnit, ts)

	auditSchema := config.AuditSchema
	if auditSchema == "" {
		auditSchema = dvload.DefaultAuditSchema
	}
	auditTable := config.AuditTable
	if auditTable == "" {
		auditTable = dvload.DefaultAuditTable
	}

	conn := db.NewPoolAdapter(pool)
	audit, err := auditlog.NewTableAuditLogger(conn, s.console, run, auditSchema, auditTable)
	if err != nil {
		return nil, err
	}

	loader := NewLoader(conn, audit, s.console, s.recorder, ts)
	return executeOperations(ctx, loader, config.Specs)
}

// executeOperations drives the specs strictly in order, accumulating each
// operation's metrics under its key. The first failure propagates unchanged.
func executeOperations(ctx context.Context, loader *Loader, specs []dvload.TargetTableSpec) (dvload.RunMetrics, error) {
	metrics := make(dvload.RunMetrics, len(specs))

	for i := range specs {
		spec := &specs[i]
		m, err := loader.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		metrics[spec.OperationKey()] = m
	}

	return metrics, nil
}

// Verify RunService implements Runner at compile time
var _ dvload.Runner = (*RunService)(nil)
