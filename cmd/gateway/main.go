// Gateway is a minimal HTTP inference gateway.
//
// It relays JSON inference requests to a single backend service, records
// request-count and latency metrics, and exposes health and metrics
// endpoints:
//   - POST /v1/infer relays the body to <BACKEND_URL>/completion
//   - GET /metrics serves the Prometheus exposition
//   - GET /health returns {"ok": true}
//
// Usage:
//
//	# Start with defaults (backend at http://localhost:9000)
//	gateway run
//
//	# Point at a backend and reload the log level on config changes
//	BACKEND_URL=http://llm:9000 gateway run --config gateway.yaml --watch
//
//	# Check a configuration file
//	gateway validate --config gateway.yaml
//
//	# Show version information
//	gateway version
package main

func main() {
	Execute()
}
