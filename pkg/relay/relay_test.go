package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"mercator-hq/gateway/internal/backendtest"
	"mercator-hq/gateway/pkg/backend"
	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/telemetry/metrics"
)

func newCollector() *metrics.Collector {
	includeRuntime := false
	return metrics.NewCollector(&config.MetricsConfig{
		LatencyBuckets: append([]float64(nil), config.DefaultLatencyBuckets...),
		IncludeRuntime: &includeRuntime,
	}, nil)
}

// counts returns the request counter per outcome and the histogram count.
func counts(t *testing.T, c *metrics.Collector) (map[string]float64, uint64) {
	t.Helper()

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	byOutcome := make(map[string]float64)
	var observations uint64
	for _, mf := range families {
		switch mf.GetName() {
		case "inference_requests_total":
			for _, m := range mf.GetMetric() {
				byOutcome[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
			}
		case "inference_latency_ms":
			observations = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return byOutcome, observations
}

func newRelay(t *testing.T, baseURL string, timeout time.Duration) (*Relay, *metrics.Collector) {
	t.Helper()

	cfg := backendtest.TestConfig(baseURL)
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	client, err := backend.New(cfg)
	if err != nil {
		t.Fatalf("backend.New() error = %v", err)
	}

	collector := newCollector()
	r, err := New(client, collector, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r, collector
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(nil, newCollector(), nil); err == nil {
		t.Error("New() with nil backend should fail")
	}
	if _, err := New(&fakeCompleter{}, nil, nil); err == nil {
		t.Error("New() with nil recorder should fail")
	}
}

func TestRelay_Forward(t *testing.T) {
	tests := []struct {
		name        string
		response    *backendtest.MockResponse
		body        string
		timeout     time.Duration
		wantKind    Kind
		wantStatus  int
		wantBody    string
		wantMessage string
		wantOutcome string
	}{
		{
			name:        "backend 200",
			response:    &backendtest.MockResponse{StatusCode: http.StatusOK, Body: `{"content":"hi"}`},
			body:        `{"prompt":"hello"}`,
			wantKind:    KindSuccess,
			wantStatus:  http.StatusOK,
			wantBody:    `{"content":"hi"}`,
			wantOutcome: metrics.OutcomeOK,
		},
		{
			name:        "backend 500",
			response:    &backendtest.MockResponse{StatusCode: http.StatusInternalServerError, Body: `{"detail":"oom"}`},
			body:        `{"prompt":"hello"}`,
			wantKind:    KindBackendError,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    `{"detail":"oom"}`,
			wantOutcome: metrics.OutcomeBad,
		},
		{
			name:        "backend 201 is not success",
			response:    &backendtest.MockResponse{StatusCode: http.StatusCreated, Body: `{}`},
			body:        `{}`,
			wantKind:    KindBackendError,
			wantStatus:  http.StatusCreated,
			wantBody:    `{}`,
			wantOutcome: metrics.OutcomeBad,
		},
		{
			name:        "backend 204 is not success",
			response:    &backendtest.MockResponse{StatusCode: http.StatusNoContent},
			body:        `{}`,
			wantKind:    KindBackendError,
			wantStatus:  http.StatusNoContent,
			wantBody:    ``,
			wantOutcome: metrics.OutcomeBad,
		},
		{
			name: "backend redirect is relayed, not followed",
			response: &backendtest.MockResponse{
				StatusCode: http.StatusFound,
				Body:       `{"moved":true}`,
				Headers:    map[string]string{"Location": "/elsewhere"},
			},
			body:        `{"prompt":"hello"}`,
			wantKind:    KindBackendError,
			wantStatus:  http.StatusFound,
			wantBody:    `{"moved":true}`,
			wantOutcome: metrics.OutcomeBad,
		},
		{
			name:        "backend timeout",
			response:    &backendtest.MockResponse{StatusCode: http.StatusOK, Body: `{}`, Delay: 2 * time.Second},
			body:        `{"prompt":"slow"}`,
			timeout:     50 * time.Millisecond,
			wantKind:    KindTransportFailure,
			wantMessage: "timed out",
			wantOutcome: metrics.OutcomeError,
		},
		{
			name:        "invalid JSON",
			body:        `{"prompt":`,
			wantKind:    KindTransportFailure,
			wantMessage: "unexpected end of JSON input",
			wantOutcome: metrics.OutcomeError,
		},
		{
			name:        "empty body",
			body:        ``,
			wantKind:    KindTransportFailure,
			wantMessage: "unexpected end of JSON input",
			wantOutcome: metrics.OutcomeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := backendtest.NewMockServer()
			defer mock.Close()
			if tt.response != nil {
				mock.SetResponse("/completion", *tt.response)
			}
			mock.SetResponse("/elsewhere", backendtest.MockCompletion(`{"text":"other"}`))

			r, collector := newRelay(t, mock.URL(), tt.timeout)

			result := r.Forward(context.Background(), strings.NewReader(tt.body))

			if result.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", result.Kind, tt.wantKind)
			}
			if result.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", result.StatusCode, tt.wantStatus)
			}
			if string(result.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", result.Body, tt.wantBody)
			}
			if !strings.Contains(result.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want it to contain %q", result.Message, tt.wantMessage)
			}
			if result.Outcome() != tt.wantOutcome {
				t.Errorf("Outcome() = %q, want %q", result.Outcome(), tt.wantOutcome)
			}

			byOutcome, observations := counts(t, collector)
			for _, outcome := range metrics.Outcomes {
				want := 0.0
				if outcome == tt.wantOutcome {
					want = 1
				}
				if byOutcome[outcome] != want {
					t.Errorf("counter{status=%q} = %v, want %v", outcome, byOutcome[outcome], want)
				}
			}
			if observations != 1 {
				t.Errorf("latency observations = %d, want 1", observations)
			}

			wantCalls := 0
			if tt.response != nil {
				wantCalls = 1
			}
			if n := mock.RequestCount(); n != wantCalls {
				t.Errorf("backend received %d requests, want %d", n, wantCalls)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestRelay_Forward_BodyReadError(t *testing.T) {
	mock := backendtest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/completion", backendtest.MockCompletion(`{}`))

	r, collector := newRelay(t, mock.URL(), 0)

	result := r.Forward(context.Background(), failingReader{})

	if result.Kind != KindTransportFailure {
		t.Fatalf("Kind = %v, want transport failure", result.Kind)
	}
	if !strings.Contains(result.Message, "connection reset") {
		t.Errorf("Message = %q, want read error", result.Message)
	}
	if n := mock.RequestCount(); n != 0 {
		t.Errorf("backend received %d requests, want 0", n)
	}

	byOutcome, observations := counts(t, collector)
	if byOutcome[metrics.OutcomeError] != 1 || observations != 1 {
		t.Errorf("error counter = %v, observations = %d, want 1 and 1", byOutcome[metrics.OutcomeError], observations)
	}
}

func TestRelay_Forward_InvalidJSONSkipsBackend(t *testing.T) {
	mock := backendtest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/completion", backendtest.MockCompletion(`{}`))

	r, _ := newRelay(t, mock.URL(), 0)
	r.Forward(context.Background(), strings.NewReader(`not json`))

	if n := mock.RequestCount(); n != 0 {
		t.Errorf("backend received %d requests, want 0", n)
	}
}

func TestRelay_Forward_ConnectionRefused(t *testing.T) {
	r, collector := newRelay(t, backendtest.UnreachableURL(t), 0)

	result := r.Forward(context.Background(), strings.NewReader(`{"prompt":"hello"}`))

	if !result.Failed() {
		t.Fatalf("Kind = %v, want transport failure", result.Kind)
	}
	if result.Message == "" {
		t.Error("transport failure should carry a message")
	}

	byOutcome, observations := counts(t, collector)
	if byOutcome[metrics.OutcomeError] != 1 || observations != 1 {
		t.Errorf("error counter = %v, observations = %d, want 1 and 1", byOutcome[metrics.OutcomeError], observations)
	}
}

func TestRelay_Forward_IgnoresCallerCancellation(t *testing.T) {
	mock := backendtest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/completion", backendtest.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"content":"done"}`,
		Delay:      100 * time.Millisecond,
	})

	r, _ := newRelay(t, mock.URL(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result := r.Forward(ctx, strings.NewReader(`{}`))
	if result.Kind != KindSuccess {
		t.Errorf("Kind = %v (%s), want success despite caller cancellation", result.Kind, result.Message)
	}
}

func TestRelay_Forward_PanicStillRecords(t *testing.T) {
	collector := newCollector()
	r, err := New(&fakeCompleter{panicWith: "boom"}, collector, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		r.Forward(context.Background(), strings.NewReader(`{}`))
	}()

	byOutcome, observations := counts(t, collector)
	if byOutcome[metrics.OutcomeError] != 1 || observations != 1 {
		t.Errorf("error counter = %v, observations = %d, want 1 and 1", byOutcome[metrics.OutcomeError], observations)
	}
}

func TestRelay_Forward_Concurrent(t *testing.T) {
	collector := newCollector()
	r, err := New(&fakeCompleter{status: http.StatusOK, body: []byte(`{}`)}, collector, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	const n = 50
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			r.Forward(context.Background(), strings.NewReader(`{}`))
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	byOutcome, observations := counts(t, collector)
	if byOutcome[metrics.OutcomeOK] != n || observations != n {
		t.Errorf("ok counter = %v, observations = %d, want %d", byOutcome[metrics.OutcomeOK], observations, n)
	}
}

func TestResult_Outcome(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{Success([]byte(`{}`)), metrics.OutcomeOK},
		{BackendError(http.StatusBadGateway, nil), metrics.OutcomeBad},
		{TransportFailure("refused"), metrics.OutcomeError},
		{fromResponse(http.StatusOK, nil), metrics.OutcomeOK},
		{fromResponse(http.StatusNotFound, nil), metrics.OutcomeBad},
	}

	for _, tt := range tests {
		if got := tt.result.Outcome(); got != tt.want {
			t.Errorf("%v.Outcome() = %q, want %q", tt.result.Kind, got, tt.want)
		}
	}
}

type fakeCompleter struct {
	status    int
	body      []byte
	panicWith string
}

func (f *fakeCompleter) Complete(ctx context.Context, payload json.RawMessage) (*backend.Response, error) {
	if f.panicWith != "" {
		panic(f.panicWith)
	}
	return &backend.Response{StatusCode: f.status, Body: f.body}, nil
}
