package config

import "time"

// Config is the root configuration structure for the inference gateway.
// It contains all configuration sections for the HTTP server, the backend
// inference service, relay behavior, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Backend contains configuration for the upstream inference service
	// that requests are relayed to.
	Backend BackendConfig `yaml:"backend"`

	// Relay contains configuration for how relay outcomes are surfaced
	// to callers.
	Relay RelayConfig `yaml:"relay"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the inbound HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the gateway to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8000", "0.0.0.0:8000").
	// Default: "0.0.0.0:8000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero value means no timeout.
	// Default: 0 (no timeout)
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the backend timeout or slow backend responses
	// are cut off before they can be relayed. A zero value means no timeout.
	// Default: 0 (no timeout)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 35s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// BackendConfig contains configuration for the inference backend.
type BackendConfig struct {
	// URL is the base URL of the backend inference service. It is read once
	// at startup; the BACKEND_URL environment variable overrides it.
	// Default: "http://localhost:9000"
	URL string `yaml:"url"`

	// CompletionPath is the sub-path inference requests are posted to.
	// Default: "/completion"
	CompletionPath string `yaml:"completion_path"`

	// Timeout bounds each outbound call, including reading the response body.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// RelayConfig contains configuration for the request relay.
type RelayConfig struct {
	// ErrorStatusCode is the HTTP status returned to the caller when the
	// backend could not be reached or the payload could not be parsed.
	// The error body is always {"error": "<message>"}.
	// Default: 200
	ErrorStatusCode int `yaml:"error_status_code"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is an optional metric name prefix.
	// Default: "" (metrics are named inference_*)
	Namespace string `yaml:"namespace"`

	// Subsystem is an optional metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`

	// LatencyBuckets defines histogram buckets for relay latency (milliseconds).
	// Default: [25, 50, 100, 200, 400, 800, 1600, 3200, 6400]
	LatencyBuckets []float64 `yaml:"latency_buckets"`

	// IncludeRuntime registers the Go runtime and process collectors
	// alongside the relay metrics.
	// Default: true
	IncludeRuntime *bool `yaml:"include_runtime"`
}

// RuntimeCollectorsEnabled reports whether Go runtime and process collectors
// should be registered.
func (m MetricsConfig) RuntimeCollectorsEnabled() bool {
	return m.IncludeRuntime == nil || *m.IncludeRuntime
}

// Ratio returns the configured sample ratio, or the default when unset.
func (t TracingConfig) Ratio() float64 {
	if t.SampleRatio == nil {
		return DefaultTracingSampleRatio
	}
	return *t.SampleRatio
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces sampled when Sampler is "ratio".
	// An explicit 0 samples nothing.
	// Default: 1.0
	SampleRatio *float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the exporter connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "inference-gateway"
	ServiceName string `yaml:"service_name"`
}
