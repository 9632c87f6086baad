package backendtest

import (
	"net"
	"testing"
	"time"

	"mercator-hq/gateway/pkg/config"
)

// TestConfig returns a backend configuration pointing at baseURL.
func TestConfig(baseURL string) *config.BackendConfig {
	return &config.BackendConfig{
		URL:            baseURL,
		CompletionPath: config.DefaultCompletionPath,
		Timeout:        5 * time.Second,
	}
}

// UnreachableURL returns the base URL of a port with nothing listening.
func UnreachableURL(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	return "http://" + addr
}
