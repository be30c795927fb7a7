// Package metrics counts calculator operations on a private Prometheus
// registry and writes it out in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"calcnerd/internal/engine"
	"calcnerd/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation kinds.
const (
	KindBinary = "binary"
	KindUnary  = "unary"
	KindMemory = "memory"
	KindExport = "export"
)

// Recorder holds the calculator's collectors.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	entries    prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calcnerd_operations_total",
			Help: "Calculator operations by kind, operator and status.",
		}, []string{"kind", "op", "status"}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "calcnerd_history_entries",
			Help: "Entries currently retained in history.",
		}),
	}
	r.registry.MustRegister(r.operations, r.entries)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe counts an engine outcome. No-op outcomes are not counted.
func (r *Recorder) Observe(kind, op string, out engine.Outcome) {
	if out.Status == engine.StatusNoOp {
		return
	}
	r.operations.WithLabelValues(kind, op, out.Status.String()).Inc()
}

// Count increments the counter for an operation that has no engine
// outcome, such as memory or export actions.
func (r *Recorder) Count(kind, op, status string) {
	r.operations.WithLabelValues(kind, op, status).Inc()
}

// SetHistoryEntries records the retained history size.
func (r *Recorder) SetHistoryEntries(n int) {
	r.entries.Set(float64(n))
}

// Flush writes the registry to path atomically. An empty path is a no-op.
func (r *Recorder) Flush(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	logging.Get(logging.CategoryMetrics).Debug("Wrote metrics to %s", path)
	return nil
}
