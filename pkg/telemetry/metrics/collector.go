package metrics

import (
	"time"

	"mercator-hq/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the process-wide metrics registry. It is constructed once at
// startup and shared by every request handler; all updates go through
// client_golang's atomic counters and histogram buckets.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestMetrics *RequestMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created so
// that collectors never leak between instances.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		LatencyBuckets: config.DefaultLatencyBuckets,
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = append([]float64(nil), config.DefaultLatencyBuckets...)
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)

	if cfg.RuntimeCollectorsEnabled() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// RecordRequest records the outcome of one relay invocation: exactly one
// counter increment and one latency observation.
//
// Parameters:
//   - status: Outcome label (OutcomeOK, OutcomeBad, OutcomeError)
//   - duration: Wall-clock round-trip time
//
// Example:
//
//	collector.RecordRequest(metrics.OutcomeOK, 120*time.Millisecond)
func (c *Collector) RecordRequest(status string, duration time.Duration) {
	c.requestMetrics.RecordRequest(status, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
