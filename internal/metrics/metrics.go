// ABOUTME: Prometheus collectors for feed fetching, parsing, generation and the HTTP API
// ABOUTME: Collectors register on the default registry and are served at /metrics

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rssedit"

// Outcome label for operations that did not fail.
const OutcomeOK = "ok"

var (
	// FetchDuration measures upstream feed requests.
	// Labels: outcome (ok or an error kind)
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "fetch",
		Name:      "duration_seconds",
		Help:      "Upstream feed fetch latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"outcome"})

	// Retries counts re-attempts made by the retry loop.
	// Labels: kind (error kind that triggered the retry)
	Retries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fetch",
		Name:      "retries_total",
		Help:      "Total fetch retries by triggering error kind",
	}, []string{"kind"})

	// Parses counts parse results.
	// Labels: feed_type, outcome
	Parses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "parse",
		Name:      "results_total",
		Help:      "Total feed parses by feed type and outcome",
	}, []string{"feed_type", "outcome"})

	// Generations counts XML serializations.
	// Labels: outcome
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "generate",
		Name:      "results_total",
		Help:      "Total XML generations by outcome",
	}, []string{"outcome"})

	// HTTPRequests counts API requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP API requests",
	}, []string{"method", "route", "status"})

	// HTTPDuration measures API request handling time.
	// Labels: method, route
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP API request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveFetch records one fetch attempt.
func ObserveFetch(outcome string, started time.Time) {
	FetchDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// Outcome returns OutcomeOK for an empty kind.
func Outcome(kind string) string {
	if kind == "" {
		return OutcomeOK
	}
	return kind
}
