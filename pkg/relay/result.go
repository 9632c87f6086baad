package relay

import (
	"net/http"

	"mercator-hq/gateway/pkg/telemetry/metrics"
)

// Kind classifies the outcome of a relay invocation.
type Kind int

const (
	// KindSuccess means the backend answered with HTTP 200.
	KindSuccess Kind = iota

	// KindBackendError means the backend answered with any other status.
	KindBackendError

	// KindTransportFailure means no backend response was obtained, or the
	// inbound payload was not valid JSON.
	KindTransportFailure
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindBackendError:
		return "backend_error"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one relay invocation.
//
// Success and BackendError carry the backend status and body verbatim.
// TransportFailure carries only a message describing what went wrong.
type Result struct {
	Kind Kind

	// StatusCode is the backend HTTP status (zero for transport failures)
	StatusCode int

	// Body is the backend response body (nil for transport failures)
	Body []byte

	// Message describes a transport failure
	Message string
}

// Success returns a result for a 200 backend response.
func Success(body []byte) Result {
	return Result{Kind: KindSuccess, StatusCode: http.StatusOK, Body: body}
}

// BackendError returns a result for a non-200 backend response.
func BackendError(statusCode int, body []byte) Result {
	return Result{Kind: KindBackendError, StatusCode: statusCode, Body: body}
}

// TransportFailure returns a result for a request that produced no backend
// response.
func TransportFailure(message string) Result {
	return Result{Kind: KindTransportFailure, Message: message}
}

// fromResponse classifies a backend response by status code.
func fromResponse(statusCode int, body []byte) Result {
	if statusCode == http.StatusOK {
		return Success(body)
	}
	return BackendError(statusCode, body)
}

// Outcome returns the metrics label for the result.
func (r Result) Outcome() string {
	switch r.Kind {
	case KindSuccess:
		return metrics.OutcomeOK
	case KindBackendError:
		return metrics.OutcomeBad
	default:
		return metrics.OutcomeError
	}
}

// Failed reports whether the result is a transport failure.
func (r Result) Failed() bool {
	return r.Kind == KindTransportFailure
}
