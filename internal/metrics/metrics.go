// Package metrics defines the Prometheus metrics recorded by discovery.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for discovery passes.
type Metrics struct {
	SourcesEvaluated    prometheus.Counter
	EmptySources        prometheus.Counter
	EnumerationFailures prometheus.Counter
	PassFailures        prometheus.Counter
	ProvidersRegistered *prometheus.CounterVec
	PassDuration        prometheus.Histogram
}

// New creates the discovery metrics and registers them with reg. A nil reg
// leaves the metrics unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SourcesEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Name: "plugreg_sources_evaluated_total",
			Help: "Total number of declaration sources read and evaluated",
		}),
		EmptySources: factory.NewCounter(prometheus.CounterOpts{
			Name: "plugreg_sources_empty_total",
			Help: "Total number of declaration sources that declared nothing",
		}),
		EnumerationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "plugreg_enumeration_failures_total",
			Help: "Total number of failed attempts to list declaration sources",
		}),
		PassFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "plugreg_discovery_failures_total",
			Help: "Total number of discovery passes aborted by a read or evaluation error",
		}),
		ProvidersRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plugreg_providers_registered_total",
			Help: "Total number of providers routed into a category collection",
		}, []string{"category"}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "plugreg_discovery_duration_seconds",
			Help:    "Duration of discovery passes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}),
	}
}

// IncrementProviders records n providers added to category.
func (m *Metrics) IncrementProviders(category string, n int) {
	if n > 0 {
		m.ProvidersRegistered.WithLabelValues(category).Add(float64(n))
	}
}

// ObservePass records the duration of a discovery pass.
// Call with time.Now() at the start of the pass.
func (m *Metrics) ObservePass(start time.Time) {
	m.PassDuration.Observe(time.Since(start).Seconds())
}
