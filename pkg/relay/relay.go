package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"mercator-hq/gateway/pkg/backend"
	"mercator-hq/gateway/pkg/telemetry/logging"
	"mercator-hq/gateway/pkg/telemetry/metrics"
	"mercator-hq/gateway/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Completer sends a payload to the inference backend.
type Completer interface {
	Complete(ctx context.Context, payload json.RawMessage) (*backend.Response, error)
}

// Recorder records one observation per relay invocation.
type Recorder interface {
	RecordRequest(status string, duration time.Duration)
}

// SpanStarter starts tracing spans.
type SpanStarter interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// Relay forwards inference payloads to the backend and records the outcome.
// It is safe for concurrent use.
type Relay struct {
	backend  Completer
	recorder Recorder
	tracer   SpanStarter
}

// New creates a new relay. A nil tracer disables spans.
func New(b Completer, recorder Recorder, tracer SpanStarter) (*Relay, error) {
	if b == nil {
		return nil, errors.New("backend is nil")
	}
	if recorder == nil {
		return nil, errors.New("recorder is nil")
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	return &Relay{
		backend:  b,
		recorder: recorder,
		tracer:   tracer,
	}, nil
}

// Forward reads body, relays it to the backend and classifies the outcome.
//
// Every call records exactly one request count and one latency observation,
// including when body cannot be read or is not valid JSON. Latency covers
// reading, parsing and the backend round trip. The backend call is not
// cancelled when ctx is, so a caller that disconnects does not abort an
// in-flight inference.
func (r *Relay) Forward(ctx context.Context, body io.Reader) (result Result) {
	start := time.Now()
	result = TransportFailure("relay aborted")

	defer func() {
		elapsed := time.Since(start)
		r.recorder.RecordRequest(result.Outcome(), elapsed)
		logOutcome(ctx, result, elapsed)
	}()

	raw, err := io.ReadAll(body)
	if err != nil {
		result = TransportFailure(fmt.Sprintf("failed to read request body: %v", err))
		return result
	}

	var payload json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		result = TransportFailure(err.Error())
		return result
	}

	callCtx, span := r.tracer.Start(context.WithoutCancel(ctx), "relay.forward",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	resp, err := r.backend.Complete(callCtx, payload)
	if err != nil {
		tracing.SetError(span, err)
		result = TransportFailure(err.Error())
		span.SetAttributes(attribute.String("relay.outcome", result.Outcome()))
		return result
	}

	result = fromResponse(resp.StatusCode, resp.Body)
	span.SetAttributes(
		attribute.String("relay.outcome", result.Outcome()),
		attribute.Int("http.response.status_code", resp.StatusCode),
	)
	return result
}

func logOutcome(ctx context.Context, result Result, elapsed time.Duration) {
	fields := append(logging.ContextFields(ctx),
		"outcome", result.Outcome(),
		"latency_ms", elapsed.Milliseconds(),
	)

	switch result.Outcome() {
	case metrics.OutcomeOK:
		slog.DebugContext(ctx, "inference relayed", append(fields, "status", result.StatusCode)...)
	case metrics.OutcomeBad:
		slog.WarnContext(ctx, "backend returned error status", append(fields, "status", result.StatusCode)...)
	default:
		slog.ErrorContext(ctx, "inference relay failed", append(fields, "error", result.Message)...)
	}
}
