// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server applies middleware in this order, outermost first:
//
//	handler = Chain(mux,
//	    RequestIDMiddleware,
//	    tracing.HTTPMiddleware,
//	    LoggingMiddleware,
//	    RecoveryMiddleware,
//	)
//
// RequestIDMiddleware runs first so that every later log line carries the
// request ID. RecoveryMiddleware sits inside LoggingMiddleware so a recovered
// panic is still logged as a completed 500 request.
//
// # Request ID
//
// A UUID v4 is generated unless the client sends X-Request-ID:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The ID is echoed in the response and stored in the logging context.
package middleware
