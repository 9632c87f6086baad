// Package tracing provides OpenTelemetry distributed tracing for the gateway.
//
// Tracing is off by default and then costs a noop tracer call per request.
// When enabled, spans are exported over OTLP gRPC and W3C Trace Context
// headers are extracted from inbound requests and injected into the backend
// call, so the gateway shows up as one hop between the caller and the
// inference service:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling Strategies
//
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces by trace ID
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "relay.forward")
//	defer span.End()
package tracing
