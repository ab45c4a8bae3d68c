// Package metrics holds the Prometheus collectors exposed on /-/metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service collectors and the registry they live in.
type Manager struct {
	registry *prometheus.Registry

	CounterRequests   *prometheus.CounterVec
	CounterMutations  *prometheus.CounterVec
	CounterPanics     prometheus.Counter
	GaugeRequests     prometheus.Gauge
	HistRequestLength *prometheus.HistogramVec
}

// NewManager registers the collectors on a fresh registry together with
// the Go runtime and process collectors.
func NewManager(namespace string) *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of handled requests",
		}, []string{"method", "route", "status"}),
		CounterMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Successful writes by entity and operation",
		}, []string{"entity", "op"}),
		CounterPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "The total number of recovered handler panics",
		}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of requests being served",
		}),
		HistRequestLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// NewTestManager returns a Manager on its own registry for tests.
func NewTestManager() *Manager {
	return NewManager("test")
}

// Registry returns the registry backing the collectors.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Mutation counts a successful write. A nil Manager is a no-op.
func (m *Manager) Mutation(entity, op string) {
	if m == nil {
		return
	}

	m.CounterMutations.WithLabelValues(entity, op).Inc()
}
