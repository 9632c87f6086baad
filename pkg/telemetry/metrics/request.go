package metrics

import (
	"time"

	"mercator-hq/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for a single relay invocation.
const (
	// OutcomeOK means the backend answered with HTTP 200.
	OutcomeOK = "ok"

	// OutcomeBad means the backend answered with any other status.
	OutcomeBad = "bad"

	// OutcomeError means no backend answer was obtained (parse, connection
	// or timeout failure).
	OutcomeError = "error"
)

// Outcomes lists every outcome label in a stable order.
var Outcomes = []string{OutcomeOK, OutcomeBad, OutcomeError}

// RequestMetrics tracks metrics related to inference request relaying.
//
// Metrics:
//   - inference_requests_total: Total request count by outcome status
//   - inference_latency_ms: Round-trip latency histogram in milliseconds
type RequestMetrics struct {
	// Total request count
	requestsTotal *prometheus.CounterVec

	// Relay latency histogram
	latency prometheus.Histogram
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "inference_requests_total",
				Help:      "Total number of inference requests",
			},
			[]string{"status"},
		),

		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "inference_latency_ms",
				Help:      "Inference latency in milliseconds",
				Buckets:   cfg.LatencyBuckets,
			},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.latency,
	)

	// Export every outcome from the first scrape, not only after it occurs
	for _, outcome := range Outcomes {
		rm.requestsTotal.WithLabelValues(outcome)
	}

	return rm
}

// RecordRequest increments the counter for status and observes duration
// in milliseconds.
func (rm *RequestMetrics) RecordRequest(status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(status).Inc()
	rm.latency.Observe(float64(duration) / float64(time.Millisecond))
}
