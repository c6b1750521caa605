// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeparse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeparse_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipeparse_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Fetch metrics, one series per engine and outcome.
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeparse_fetch_total",
			Help: "Page fetch attempts by engine and outcome",
		},
		[]string{"engine", "outcome"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeparse_fetch_duration_seconds",
			Help:    "Page fetch latency in seconds by engine",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 60},
		},
		[]string{"engine"},
	)

	// Extraction metrics
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeparse_extractions_total",
			Help: "Completed extractions by the path that produced the record",
		},
		[]string{"source"},
	)

	emptyExtractionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeparse_empty_extractions_total",
			Help: "Extractions that found neither ingredients nor instructions",
		},
	)
)

// Fetch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeBlocked = "blocked"
	OutcomeError   = "error"
)

// RequestStarted marks an HTTP request in flight and returns the func that
// records its completion.
func RequestStarted(method string) func(path string, status string) {
	start := time.Now()
	httpRequestsInFlight.Inc()
	return func(path string, status string) {
		httpRequestsInFlight.Dec()
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveFetch records one engine attempt.
func ObserveFetch(engine, outcome string, d time.Duration) {
	fetchTotal.WithLabelValues(engine, outcome).Inc()
	fetchDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// ObserveExtraction records which path produced a record and whether it was empty.
func ObserveExtraction(source string, empty bool) {
	extractionsTotal.WithLabelValues(source).Inc()
	if empty {
		emptyExtractionsTotal.Inc()
	}
}
