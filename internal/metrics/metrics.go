// Package metrics exposes Prometheus instruments for query execution and
// graph comparison.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Comparison outcomes.
const (
	OutcomeMatch    = "match"
	OutcomeMismatch = "mismatch"
	OutcomeError    = "error"
)

type Registry struct {
	QueriesTotal     *prometheus.CounterVec
	QueryDuration    *prometheus.HistogramVec
	ComparisonsTotal *prometheus.CounterVec
	DiffElements     *prometheus.HistogramVec

	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdiff_queries_total",
			Help: "Executed queries by side and status",
		},
		[]string{"side", "status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphdiff_query_duration_seconds",
			Help:    "Query execution latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		},
		[]string{"backend"},
	)

	r.ComparisonsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdiff_comparisons_total",
			Help: "Query comparisons by outcome",
		},
		[]string{"outcome"},
	)

	r.DiffElements = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphdiff_diff_elements",
			Help:    "Missing plus extra elements per comparison",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"kind"},
	)

	return r
}

// RecordQuery records one query execution. side is "gt", "llm" or empty.
func (r *Registry) RecordQuery(side, backend, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.QueriesTotal.WithLabelValues(side, status).Inc()
	if duration > 0 {
		r.QueryDuration.WithLabelValues(backend).Observe(duration.Seconds())
	}
}

// RecordComparison records one comparison outcome and, for compared queries,
// the size of the node and edge differences.
func (r *Registry) RecordComparison(outcome string, nodeDiff, edgeDiff int) {
	if r == nil {
		return
	}
	r.ComparisonsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeError {
		return
	}
	r.DiffElements.WithLabelValues("nodes").Observe(float64(nodeDiff))
	r.DiffElements.WithLabelValues("edges").Observe(float64(edgeDiff))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
