package handlers

import (
	"net/http"
)

// HealthHandler handles health check requests for liveness probes.
// It reports the process as alive without consulting the backend.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
