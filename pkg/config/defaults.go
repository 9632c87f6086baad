package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:8000"
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 35 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Backend defaults
	DefaultBackendURL     = "http://localhost:9000"
	DefaultCompletionPath = "/completion"
	DefaultBackendTimeout = 30 * time.Second

	// Relay defaults
	DefaultErrorStatusCode = 200

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingServiceName = "inference-gateway"
)

// DefaultLatencyBuckets are the relay latency histogram boundaries in milliseconds.
var DefaultLatencyBuckets = []float64{25, 50, 100, 200, 400, 800, 1600, 3200, 6400}

// NewDefaultConfig returns a configuration populated entirely with defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Tracing.Insecure = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their default values.
// Fields that were explicitly set are left untouched.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyBackendDefaults(&cfg.Backend)
	applyRelayDefaults(&cfg.Relay)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
}

func applyBackendDefaults(cfg *BackendConfig) {
	if cfg.URL == "" {
		cfg.URL = DefaultBackendURL
	}
	if cfg.CompletionPath == "" {
		cfg.CompletionPath = DefaultCompletionPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultBackendTimeout
	}
}

func applyRelayDefaults(cfg *RelayConfig) {
	if cfg.ErrorStatusCode == 0 {
		cfg.ErrorStatusCode = DefaultErrorStatusCode
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if len(cfg.Metrics.LatencyBuckets) == 0 {
		cfg.Metrics.LatencyBuckets = append([]float64(nil), DefaultLatencyBuckets...)
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == nil {
		ratio := DefaultTracingSampleRatio
		cfg.Tracing.SampleRatio = &ratio
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
}
