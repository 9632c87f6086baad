// Package handlers provides HTTP request handlers for the gateway.
//
// # Endpoints
//
//   - InferHandler: POST /v1/infer, relays the JSON body to the backend
//   - HealthHandler: GET /health, liveness probe returning {"ok": true}
//
// The metrics endpoint is served by the metrics package.
//
// # Responses
//
// A relayed request returns the backend's status code and body unchanged,
// with Content-Type application/json. When the backend could not be reached,
// or the request body is not JSON, the body is:
//
//	{"error": "<message>"}
//
// with the status configured by relay.error_status_code (200 by default).
// Callers must therefore inspect the body, not only the status, to detect
// failures.
//
// Wrong methods get 405 with an Allow header.
package handlers
