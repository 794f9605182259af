// Package metrics provides Prometheus telemetry for vault load runs.
//
// Telemetry is optional and live-only: the audit log table remains the
// durable record of every operation. A disabled Metrics instance satisfies
// the engine's Recorder interface with no-ops.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// Metrics holds all dvload collectors on a private registry, so independent
// instances (and tests) never collide on the default registry.
type Metrics struct {
	RowsInserted      *prometheus.CounterVec
	OperationsTotal   *prometheus.CounterVec
	StatementDuration *prometheus.HistogramVec
	RunDuration       prometheus.Histogram

	registry *prometheus.Registry
	enabled  bool
}

// Config holds metrics configuration.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"` // e.g., ":9090"
}

// ApplyDefaults sets default values for metrics config.
func (c *Config) ApplyDefaults() {
	if c.Address == "" {
		c.Address = ":9090"
	}
}

// New creates a new metrics instance.
func New(cfg Config) *Metrics {
	cfg.ApplyDefaults()

	m := &Metrics{
		enabled:  cfg.Enabled,
		registry: prometheus.NewRegistry(),
	}

	if !cfg.Enabled {
		return m
	}

	m.RowsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dvload",
			Name:      "rows_inserted_total",
			Help:      "Total rows inserted by target table",
		},
		[]string{"table", "kind"},
	)

	m.OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dvload",
			Name:      "operations_total",
			Help:      "Total load operations by outcome",
		},
		[]string{"status"}, // "success", "error"
	)

	m.StatementDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dvload",
			Name:      "statement_duration_seconds",
			Help:      "Insert statement duration by target table",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
		[]string{"table"},
	)

	m.RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dvload",
			Name:      "run_duration_seconds",
			Help:      "Total vault load run duration",
			Buckets:   []float64{0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0, 900.0},
		},
	)

	m.registry.MustRegister(
		m.RowsInserted,
		m.OperationsTotal,
		m.StatementDuration,
		m.RunDuration,
	)

	// Also register Go runtime metrics
	m.registry.MustRegister(prometheus.NewGoCollector())
	m.registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	return m
}

// Handler returns an HTTP handler for metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts a metrics HTTP server on addr. Blocks; run in a
// goroutine. No-op when metrics are disabled.
func (m *Metrics) StartServer(addr string) error {
	if !m.enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return http.ListenAndServe(addr, mux)
}

// IsEnabled returns true if metrics are enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled
}

// ObserveOperation records one finished load operation.
func (m *Metrics) ObserveOperation(spec *dvload.TargetTableSpec, metrics dvload.OperationMetrics, err error) {
	if !m.enabled {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	m.OperationsTotal.WithLabelValues(status).Inc()

	if err != nil {
		return
	}
	m.RowsInserted.WithLabelValues(spec.TargetTable, spec.Kind.String()).Add(float64(metrics.InsertedRows))
	m.StatementDuration.WithLabelValues(spec.TargetTable).Observe(metrics.Duration.Seconds())
}

// ObserveRun records the total duration of a completed run.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	if !m.enabled {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}
