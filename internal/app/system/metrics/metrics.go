// Package metrics exposes Prometheus instrumentation for the registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry collectors. A nil *Metrics is safe to use.
type Metrics struct {
	// Mutations by op (create|update|delete) and result (ok|validation|conflict|not_found|error)
	Mutations *prometheus.CounterVec

	// List query latency
	QueryLatency prometheus.Histogram

	// Exports by format (excel|csv)
	Exports *prometheus.CounterVec
}

// New registers the registry collectors on reg. A nil reg uses the default
// registerer, which is what /metrics serves.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_mutations_total",
			Help: "Registry mutations by operation and result",
		}, []string{"op", "result"}),

		QueryLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_query_duration_seconds",
			Help:    "Duration of registry list queries including count and document expansion",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_exports_total",
			Help: "Registry exports by format",
		}, []string{"format"}),
	}
}

// IncMutation records a mutation outcome.
func (m *Metrics) IncMutation(op, result string) {
	if m != nil {
		m.Mutations.WithLabelValues(op, result).Inc()
	}
}

// ObserveQuery records the duration of a list query.
func (m *Metrics) ObserveQuery(d time.Duration) {
	if m != nil {
		m.QueryLatency.Observe(d.Seconds())
	}
}

// IncExport records a completed export.
func (m *Metrics) IncExport(format string) {
	if m != nil {
		m.Exports.WithLabelValues(format).Inc()
	}
}
