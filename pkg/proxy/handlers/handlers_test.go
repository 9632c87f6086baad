package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/gateway/pkg/backend"
	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/relay"
	"mercator-hq/gateway/pkg/telemetry/metrics"
)

type fakeForwarder struct {
	result relay.Result
	got    []byte
	calls  int
}

func (f *fakeForwarder) Forward(ctx context.Context, body io.Reader) relay.Result {
	f.calls++
	f.got, _ = io.ReadAll(body)
	return f.result
}

func TestInferHandler(t *testing.T) {
	tests := []struct {
		name            string
		result          relay.Result
		errorStatusCode int
		wantStatus      int
		wantBody        string
	}{
		{
			name:            "success passes backend body through",
			result:          relay.Success([]byte(`{"content":"hi"}`)),
			errorStatusCode: http.StatusOK,
			wantStatus:      http.StatusOK,
			wantBody:        `{"content":"hi"}`,
		},
		{
			name:            "backend error keeps backend status",
			result:          relay.BackendError(http.StatusServiceUnavailable, []byte(`{"detail":"busy"}`)),
			errorStatusCode: http.StatusOK,
			wantStatus:      http.StatusServiceUnavailable,
			wantBody:        `{"detail":"busy"}`,
		},
		{
			// Failures are reported in the body with a 200 status by default.
			// Clients must check for the "error" key.
			name:            "transport failure uses default status 200",
			result:          relay.TransportFailure("connection refused"),
			errorStatusCode: http.StatusOK,
			wantStatus:      http.StatusOK,
			wantBody:        `{"error":"connection refused"}` + "\n",
		},
		{
			name:            "transport failure with configured status",
			result:          relay.TransportFailure("timed out"),
			errorStatusCode: http.StatusBadGateway,
			wantStatus:      http.StatusBadGateway,
			wantBody:        `{"error":"timed out"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd := &fakeForwarder{result: tt.result}
			handler := NewInferHandler(fwd, tt.errorStatusCode)

			req := httptest.NewRequest(http.MethodPost, "/v1/infer", strings.NewReader(`{"prompt":"hello"}`))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if string(fwd.got) != `{"prompt":"hello"}` {
				t.Errorf("forwarded body = %q", fwd.got)
			}
		})
	}
}

func TestInferHandler_ErrorBodyShape(t *testing.T) {
	handler := NewInferHandler(&fakeForwarder{result: relay.TransportFailure("boom")}, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/v1/infer", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body) != 1 || body["error"] != "boom" {
		t.Errorf("body = %v, want exactly {\"error\": \"boom\"}", body)
	}
}

func TestInferHandler_MethodNotAllowed(t *testing.T) {
	fwd := &fakeForwarder{}
	handler := NewInferHandler(fwd, http.StatusOK)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/v1/infer", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", method, w.Code)
		}
		if allow := w.Header().Get("Allow"); allow != http.MethodPost {
			t.Errorf("%s: Allow = %q, want POST", method, allow)
		}
	}

	if fwd.calls != 0 {
		t.Errorf("relay called %d times for rejected methods", fwd.calls)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestInferHandler_BodyReadError(t *testing.T) {
	includeRuntime := false
	collector := metrics.NewCollector(&config.MetricsConfig{
		LatencyBuckets: append([]float64(nil), config.DefaultLatencyBuckets...),
		IncludeRuntime: &includeRuntime,
	}, nil)

	r, err := relay.New(unusedCompleter{}, collector, nil)
	if err != nil {
		t.Fatalf("relay.New() error = %v", err)
	}
	handler := NewInferHandler(r, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/v1/infer", errReader{})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "failed to read request body: connection reset") {
		t.Errorf("body = %q, want read error message", w.Body.String())
	}

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	for _, line := range []string{
		`inference_requests_total{status="error"} 1`,
		`inference_latency_ms_count 1`,
	} {
		if !strings.Contains(scrape.Body.String(), line) {
			t.Errorf("exposition missing %q", line)
		}
	}
}

type unusedCompleter struct{}

func (unusedCompleter) Complete(ctx context.Context, payload json.RawMessage) (*backend.Response, error) {
	return nil, errors.New("backend must not be called")
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		method     string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, http.StatusOK, `{"ok":true}` + "\n"},
		{http.MethodPost, http.StatusMethodNotAllowed, `{"error":"method not allowed"}` + "\n"},
	}

	handler := NewHealthHandler()

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHealthHandler_Idempotent(t *testing.T) {
	handler := NewHealthHandler()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK || w.Body.String() != `{"ok":true}`+"\n" {
			t.Fatalf("call %d: %d %q", i, w.Code, w.Body.String())
		}
	}
}
