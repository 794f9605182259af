package auditlog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dvload/internal/logging"
	"github.com/vvka-141/dvload/pkg/dvload"
)

// mockConn records the executed SQL and arguments.
type mockConn struct {
	sql     string
	args    []any
	execErr error
}

func (m *mockConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.sql = sql
	m.args = args
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockConn) QueryRow(ctx context.Context, sql string, args ...any) dvload.Row {
	return &mockRow{}
}

type mockRow struct{}

func (r *mockRow) Scan(dest ...any) error { return errors.New("no rows") }

// recordingLogger captures console mirror calls.
type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {}
func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func testRun() dvload.LoadRun {
	ts, _ := time.Parse(dvload.LoadTimestampLayout, "2024-03-01 08:30:00.000000")
	return dvload.LoadRun{
		ExecutionUnit: uuid.New(),
		LoadTimestamp: dvload.LoadTimestamp{Valid: true, Time: ts},
		Project:       "warehouse",
		Application:   "sales",
		Environment:   "prod",
		TaskName:      "run",
	}
}

func TestNewTableAuditLogger_RejectsBadIdentifiers(t *testing.T) {
	conn := &mockConn{}
	console := logging.NewNullLogger()

	tests := []struct {
		name   string
		schema string
		table  string
	}{
		{"empty schema", "", "vault_load_log"},
		{"empty table", "audit", ""},
		{"quoted schema", `au"dit`, "vault_load_log"},
		{"spaced table", "audit", "vault load log"},
		{"leading digit", "audit", "1log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTableAuditLogger(conn, console, testRun(), tt.schema, tt.table)
			require.Error(t, err)
			assert.ErrorIs(t, err, dvload.ErrInvalidConfig)
		})
	}
}

func TestNewTableAuditLogger_PanicsOnNilDependencies(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewTableAuditLogger(nil, logging.NewNullLogger(), testRun(), "audit", "vault_load_log")
	})
	assert.Panics(t, func() {
		_, _ = NewTableAuditLogger(&mockConn{}, nil, testRun(), "audit", "vault_load_log")
	})
}

func TestTableAuditLogger_Log_ColumnOrder(t *testing.T) {
	conn := &mockConn{}
	run := testRun()

	logger, err := NewTableAuditLogger(conn, logging.NewNullLogger(), run, "audit", "vault_load_log")
	require.NoError(t, err)

	err = logger.Log(context.Background(), dvload.LevelInfo,
		"inserttarget_dwh_vault_hub_user", "dwh", "vault", "hub_user", "inserted 3 rows")
	require.NoError(t, err)

	assert.Contains(t, conn.sql, `INSERT INTO "audit"."vault_load_log"`)
	require.Len(t, conn.args, 13)

	// log_timestamp is wall-clock, checked loosely
	logTS, ok := conn.args[0].(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().UTC(), logTS, time.Minute)

	assert.Equal(t, "INFO", conn.args[1])
	assert.Equal(t, run.ExecutionUnit, conn.args[2])
	assert.Equal(t, "warehouse", conn.args[3])
	assert.Equal(t, "sales", conn.args[4])
	assert.Equal(t, "prod", conn.args[5])

	loadTS, ok := conn.args[6].(*time.Time)
	require.True(t, ok)
	require.NotNil(t, loadTS)
	assert.Equal(t, run.LoadTimestamp.Time, *loadTS)

	assert.Equal(t, "inserttarget_dwh_vault_hub_user", conn.args[7])
	assert.Equal(t, "run", conn.args[8])
	assert.Equal(t, "dwh", conn.args[9])
	assert.Equal(t, "vault", conn.args[10])
	assert.Equal(t, "hub_user", conn.args[11])
	assert.Equal(t, "inserted 3 rows", conn.args[12])
}

func TestTableAuditLogger_Log_NullLoadTimestamp(t *testing.T) {
	conn := &mockConn{}
	run := testRun()
	run.LoadTimestamp = dvload.LoadTimestamp{}

	logger, err := NewTableAuditLogger(conn, logging.NewNullLogger(), run, "audit", "vault_load_log")
	require.NoError(t, err)

	err = logger.Log(context.Background(), dvload.LevelInfo, "stmt", "dwh", "vault", "hub_user", "ok")
	require.NoError(t, err)

	require.Len(t, conn.args, 13)
	loadTS, ok := conn.args[6].(*time.Time)
	require.True(t, ok)
	assert.Nil(t, loadTS)
}

func TestTableAuditLogger_Log_AppendFailureWrapsErrLogging(t *testing.T) {
	conn := &mockConn{execErr: errors.New("relation does not exist")}

	logger, err := NewTableAuditLogger(conn, logging.NewNullLogger(), testRun(), "audit", "vault_load_log")
	require.NoError(t, err)

	err = logger.Log(context.Background(), dvload.LevelError, "stmt", "dwh", "vault", "hub_user", "boom")
	require.Error(t, err)
	assert.ErrorIs(t, err, dvload.ErrLogging)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestTableAuditLogger_Log_ConsoleMirror(t *testing.T) {
	conn := &mockConn{}
	console := &recordingLogger{}

	logger, err := NewTableAuditLogger(conn, console, testRun(), "audit", "vault_load_log")
	require.NoError(t, err)

	require.NoError(t, logger.Log(context.Background(), dvload.LevelInfo, "stmt_a", "dwh", "vault", "hub_user", "ok"))
	require.NoError(t, logger.Log(context.Background(), dvload.LevelError, "stmt_b", "dwh", "vault", "hub_user", "bad"))

	require.Len(t, console.infos, 1)
	assert.Contains(t, console.infos[0], "stmt_a")
	require.Len(t, console.errors, 1)
	assert.Contains(t, console.errors[0], "bad")
}

func TestCreateTableStatement(t *testing.T) {
	ddl := CreateTableStatement("audit", "vault_load_log")
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "audit"."vault_load_log"`)
	assert.Contains(t, ddl, "execution_unit uuid NOT NULL")
	assert.Contains(t, ddl, "load_timestamp timestamp,")
}
