package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	includeRuntime := false
	return &config.MetricsConfig{
		LatencyBuckets: append([]float64(nil), config.DefaultLatencyBuckets...),
		IncludeRuntime: &includeRuntime,
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}

	// All outcome labels are exported before any traffic
	if n := testutil.CollectAndCount(collector.requestMetrics.requestsTotal); n != len(Outcomes) {
		t.Errorf("requests_total series = %d, want %d", n, len(Outcomes))
	}
	for _, outcome := range Outcomes {
		if v := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues(outcome)); v != 0 {
			t.Errorf("%s counter = %v, want 0", outcome, v)
		}
	}
}

func TestCollector_NilRegistry(t *testing.T) {
	c1 := NewCollector(testConfig(), nil)
	c2 := NewCollector(testConfig(), nil)

	if c1.Registry() == nil || c1.Registry() == c2.Registry() {
		t.Error("each collector should get its own registry")
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	tests := []struct {
		name     string
		status   string
		duration time.Duration
	}{
		{name: "ok request", status: OutcomeOK, duration: 20 * time.Millisecond},
		{name: "bad request", status: OutcomeBad, duration: 150 * time.Millisecond},
		{name: "error request", status: OutcomeError, duration: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues(tt.status))
			collector.RecordRequest(tt.status, tt.duration)
			after := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues(tt.status))

			if after-before != 1 {
				t.Errorf("counter delta = %v, want 1", after-before)
			}
		})
	}
}

func TestCollector_LatencyHistogram(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordRequest(OutcomeOK, 10*time.Millisecond)
	collector.RecordRequest(OutcomeBad, 120*time.Millisecond)
	collector.RecordRequest(OutcomeError, 7*time.Second)

	expected := `
# HELP inference_latency_ms Inference latency in milliseconds
# TYPE inference_latency_ms histogram
inference_latency_ms_bucket{le="25"} 1
inference_latency_ms_bucket{le="50"} 1
inference_latency_ms_bucket{le="100"} 1
inference_latency_ms_bucket{le="200"} 2
inference_latency_ms_bucket{le="400"} 2
inference_latency_ms_bucket{le="800"} 2
inference_latency_ms_bucket{le="1600"} 2
inference_latency_ms_bucket{le="3200"} 2
inference_latency_ms_bucket{le="6400"} 2
inference_latency_ms_bucket{le="+Inf"} 3
inference_latency_ms_sum 7130
inference_latency_ms_count 3
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "inference_latency_ms"); err != nil {
		t.Error(err)
	}
}

func TestCollector_Namespace(t *testing.T) {
	cfg := testConfig()
	cfg.Namespace = "edge"
	collector := NewCollector(cfg, nil)
	collector.RecordRequest(OutcomeOK, time.Millisecond)

	expected := `
# HELP edge_inference_requests_total Total number of inference requests
# TYPE edge_inference_requests_total counter
edge_inference_requests_total{status="bad"} 0
edge_inference_requests_total{status="error"} 0
edge_inference_requests_total{status="ok"} 1
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "edge_inference_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestCollector_ConcurrentUpdates(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	const workers = 16
	const perWorker = 250

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				collector.RecordRequest(OutcomeOK, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues(OutcomeOK))
	if got != workers*perWorker {
		t.Errorf("ok counter = %v, want %d (lost updates)", got, workers*perWorker)
	}
}

func TestCollector_RuntimeCollectors(t *testing.T) {
	cfg := testConfig()
	cfg.IncludeRuntime = nil // default: enabled
	collector := NewCollector(cfg, nil)

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "go_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected go_* runtime metrics when runtime collectors are enabled")
	}
}

func TestHandler_Exposition(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordRequest(OutcomeOK, 30*time.Millisecond)
	collector.RecordRequest(OutcomeBad, 30*time.Millisecond)
	collector.RecordRequest(OutcomeBad, 30*time.Millisecond)

	handler := collector.Handler()

	scrape := func() string {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q, want text/plain exposition", ct)
		}
		body, _ := io.ReadAll(w.Body)
		return string(body)
	}

	first := scrape()
	for _, line := range []string{
		`inference_requests_total{status="ok"} 1`,
		`inference_requests_total{status="bad"} 2`,
		`inference_requests_total{status="error"} 0`,
		`inference_latency_ms_bucket{le="50"} 3`,
		`inference_latency_ms_count 3`,
	} {
		if !strings.Contains(first, line) {
			t.Errorf("exposition missing %q\n%s", line, first)
		}
	}

	// Scraping is read-only
	if second := scrape(); second != first {
		t.Errorf("repeated scrapes differ:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
