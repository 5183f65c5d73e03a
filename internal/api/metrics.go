package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the API collectors on a private registry, so that several
// servers (and tests) can coexist in one process.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	comparisons prometheus.Counter
}

// NewMetrics registers the API collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relwatch",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "status"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relwatch",
			Name:      "window_fallbacks_total",
			Help:      "Window tokens that were not in the canonical table, by category.",
		}, []string{"category"}),
		comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relwatch",
			Name:      "comparisons_built_total",
			Help:      "Comparison snapshots built.",
		}),
	}
	m.registry.MustRegister(m.requests, m.fallbacks, m.comparisons)
	return m
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
