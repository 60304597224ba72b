package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the query metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry

	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  *prometheus.HistogramVec
}

// NewMetrics creates and registers the query metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "filmquery",
			Name:      "queries_total",
			Help:      "Film queries by route and outcome.",
		}, []string{"route", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "filmquery",
			Name:      "query_duration_seconds",
			Help:      "Time spent loading, filtering and sorting films.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "filmquery",
			Name:      "query_results",
			Help:      "Number of films returned per successful query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.queries,
		m.duration,
		m.results,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(route, outcome string, seconds float64, results int) {
	m.queries.WithLabelValues(route, outcome).Inc()
	m.duration.WithLabelValues(route).Observe(seconds)
	if outcome == outcomeOK {
		m.results.WithLabelValues(route).Observe(float64(results))
	}
}
