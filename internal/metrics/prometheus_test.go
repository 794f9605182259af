package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/dvload/pkg/dvload"
)

func hubSpec() *dvload.TargetTableSpec {
	return &dvload.TargetTableSpec{
		Kind:           dvload.KindHub,
		TargetDatabase: "dwh",
		TargetSchema:   "vault",
		TargetTable:    "hub_user",
		SourceSchema:   "delta",
		SourceTable:    "hub_user",
		Mappings: []dvload.ColumnMapping{
			{Target: "load_timestamp", LoadTimestamp: true},
			{Target: "hub_user_hk", Source: "hub_user_hk"},
		},
	}
}

func TestNew_Disabled(t *testing.T) {
	m := New(Config{Enabled: false})

	assert.False(t, m.IsEnabled())
	assert.Nil(t, m.RowsInserted)

	// Observations on a disabled instance are no-ops, not panics.
	m.ObserveOperation(hubSpec(), dvload.OperationMetrics{InsertedRows: 3}, nil)
	m.ObserveRun(time.Second, nil)
	assert.NoError(t, m.StartServer(":0"))
}

func TestObserveOperation_Success(t *testing.T) {
	m := New(Config{Enabled: true})

	m.ObserveOperation(hubSpec(), dvload.OperationMetrics{
		InsertedRows: 3,
		Duration:     250 * time.Millisecond,
	}, nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsInserted.WithLabelValues("hub_user", "hub")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("success")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StatementDuration))
}

func TestObserveOperation_Failure(t *testing.T) {
	m := New(Config{Enabled: true})

	m.ObserveOperation(hubSpec(), dvload.OperationMetrics{}, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("error")))
	// Failed operations contribute no row counts.
	assert.Equal(t, 0, testutil.CollectAndCount(m.RowsInserted))
}

func TestObserveRun(t *testing.T) {
	m := New(Config{Enabled: true})

	m.ObserveRun(2*time.Second, nil)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestConfig_ApplyDefaults(t *testing.T) {
	c := Config{}
	c.ApplyDefaults()
	assert.Equal(t, ":9090", c.Address)

	c = Config{Address: ":7777"}
	c.ApplyDefaults()
	assert.Equal(t, ":7777", c.Address)
}
