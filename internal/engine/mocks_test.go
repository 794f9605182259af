package engine

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// execResult scripts one Exec outcome for the mock connection.
type execResult struct {
	tag pgconn.CommandTag
	err error
}

// mockConn records executed statements and replays scripted results in order.
type mockConn struct {
	executed []string
	results  []execResult
	calls    int
}

func (m *mockConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.executed = append(m.executed, sql)
	if m.calls < len(m.results) {
		r := m.results[m.calls]
		m.calls++
		return r.tag, r.err
	}
	m.calls++
	return pgconn.NewCommandTag("INSERT 0 0"), nil
}

func (m *mockConn) QueryRow(ctx context.Context, sql string, args ...any) dvload.Row {
	return &mockRow{}
}

type mockRow struct{}

func (r *mockRow) Scan(dest ...any) error { return errors.New("no rows") }

// auditEntry captures one Log call.
type auditEntry struct {
	level          dvload.LogLevel
	statementName  string
	targetDatabase string
	targetSchema   string
	targetTable    string
	message        string
}

// mockAudit records entries and optionally fails the append.
type mockAudit struct {
	entries []auditEntry
	logErr  error
}

func (m *mockAudit) Log(ctx context.Context, level dvload.LogLevel, statementName, targetDatabase, targetSchema, targetTable, message string) error {
	m.entries = append(m.entries, auditEntry{
		level:          level,
		statementName:  statementName,
		targetDatabase: targetDatabase,
		targetSchema:   targetSchema,
		targetTable:    targetTable,
		message:        message,
	})
	if m.logErr != nil {
		return m.logErr
	}
	return nil
}

// observation captures one Recorder call.
type observation struct {
	key    string
	rows   int64
	failed bool
}

// mockRecorder records telemetry observations.
type mockRecorder struct {
	operations []observation
	runCount   int
}

func (m *mockRecorder) ObserveOperation(spec *dvload.TargetTableSpec, metrics dvload.OperationMetrics, err error) {
	m.operations = append(m.operations, observation{
		key:    spec.OperationKey(),
		rows:   metrics.InsertedRows,
		failed: err != nil,
	})
}

func (m *mockRecorder) ObserveRun(d time.Duration, err error) {
	m.runCount++
}

// nullConsole discards console output.
type nullConsole struct{}

func (nullConsole) Verbose(format string, args ...interface{}) {}
func (nullConsole) Info(format string, args ...interface{})    {}
func (nullConsole) Error(format string, args ...interface{})   {}

// hubSpec returns a minimal valid hub load spec.
func hubSpec() dvload.TargetTableSpec {
	return dvload.TargetTableSpec{
		Kind:           dvload.KindHub,
		TargetDatabase: "dwh",
		TargetSchema:   "vault",
		TargetTable:    "hub_user",
		SourceSchema:   "delta",
		SourceTable:    "hub_user",
		Mappings: []dvload.ColumnMapping{
			{Target: "load_timestamp", LoadTimestamp: true},
			{Target: "hub_user_hk", Source: "hub_user_hk"},
			{Target: "record_source", Source: "record_source"},
			{Target: "user_id", Source: "user_id"},
		},
	}
}

// satelliteSpec returns a satellite spec whose valid_from_timestamp is bound
// to the load timestamp.
func satelliteSpec() dvload.TargetTableSpec {
	return dvload.TargetTableSpec{
		Kind:           dvload.KindSatellite,
		TargetDatabase: "dwh",
		TargetSchema:   "vault",
		TargetTable:    "sat_user_details",
		SourceSchema:   "delta",
		SourceTable:    "sat_user_details",
		Mappings: []dvload.ColumnMapping{
			{Target: "load_timestamp", LoadTimestamp: true},
			{Target: "hub_user_hk", Source: "hub_user_hk"},
			{Target: "record_source", Source: "record_source"},
			{Target: "valid_from_timestamp", LoadTimestamp: true},
			{Target: "row_hash", Source: "row_hash"},
			{Target: "user_name", Source: "user_name"},
		},
	}
}

// boundTimestamp parses the canonical test timestamp.
func boundTimestamp() dvload.LoadTimestamp {
	ts, err := time.Parse(dvload.LoadTimestampLayout, "2024-01-01 00:00:00.000000")
	if err != nil {
		panic(err)
	}
	return dvload.LoadTimestamp{Valid: true, Time: ts}
}
