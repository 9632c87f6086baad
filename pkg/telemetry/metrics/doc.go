// Package metrics provides Prometheus metrics collection for the inference gateway.
//
// # Metrics
//
//   - inference_requests_total{status}: one increment per relay invocation,
//     status is "ok" (backend 200), "bad" (other backend status) or "error"
//     (parse, connection or timeout failure)
//   - inference_latency_ms: one observation per relay invocation, in
//     milliseconds, buckets 25, 50, 100, 200, 400, 800, 1600, 3200, 6400
//
// Go runtime and process collectors are registered alongside unless
// telemetry.metrics.include_runtime is false.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest(metrics.OutcomeOK, 120*time.Millisecond)
//	mux.Handle("/metrics", collector.Handler())
//
// # Prometheus Endpoint
//
//	# HELP inference_requests_total Total number of inference requests
//	# TYPE inference_requests_total counter
//	inference_requests_total{status="ok"} 1234
//
// The registry has no reset operation and lives for the whole process.
package metrics
