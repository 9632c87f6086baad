package handlers

import (
	"context"
	"io"
	"net/http"

	"mercator-hq/gateway/pkg/relay"
)

// Forwarder relays a raw request body to the backend.
type Forwarder interface {
	Forward(ctx context.Context, body io.Reader) relay.Result
}

// InferHandler handles POST /v1/infer.
type InferHandler struct {
	relay           Forwarder
	errorStatusCode int
}

// NewInferHandler creates an inference handler. errorStatusCode is the HTTP
// status written with {"error": ...} when the request could not be relayed.
func NewInferHandler(f Forwarder, errorStatusCode int) *InferHandler {
	return &InferHandler{
		relay:           f,
		errorStatusCode: errorStatusCode,
	}
}

// ServeHTTP implements http.Handler.
//
// Backend responses are returned with the backend's status and body,
// whatever that status is. Body read, parse and transport failures are
// returned as {"error": "<message>"} with the configured error status.
func (h *InferHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	result := h.relay.Forward(r.Context(), r.Body)

	if result.Failed() {
		writeError(w, h.errorStatusCode, result.Message)
		return
	}

	writeRaw(w, result.StatusCode, result.Body)
}
