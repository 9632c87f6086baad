package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateBackend(&cfg.Backend)...)
	errs = append(errs, validateRelay(&cfg.Relay)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must not be negative",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must not be negative",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}

	return errs
}

func validateBackend(cfg *BackendConfig) []FieldError {
	var errs []FieldError

	u, err := url.Parse(cfg.URL)
	switch {
	case cfg.URL == "":
		errs = append(errs, FieldError{
			Field:   "backend.url",
			Message: "backend URL is required",
		})
	case err != nil:
		errs = append(errs, FieldError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, FieldError{
			Field:   "backend.url",
			Message: fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme),
		})
	case u.Host == "":
		errs = append(errs, FieldError{
			Field:   "backend.url",
			Message: "URL must include a host",
		})
	}

	if !strings.HasPrefix(cfg.CompletionPath, "/") {
		errs = append(errs, FieldError{
			Field:   "backend.completion_path",
			Message: "completion path must start with /",
		})
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "backend.timeout",
			Message: "timeout must be positive",
		})
	}

	return errs
}

func validateRelay(cfg *RelayConfig) []FieldError {
	if cfg.ErrorStatusCode < 100 || cfg.ErrorStatusCode > 599 {
		return []FieldError{{
			Field:   "relay.error_status_code",
			Message: fmt.Sprintf("status code must be between 100 and 599, got %d", cfg.ErrorStatusCode),
		}}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown log level %q (expected debug, info, warn, error)", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown log format %q (expected json, text)", cfg.Logging.Format),
		})
	}

	switch {
	case !strings.HasPrefix(cfg.Metrics.Path, "/"):
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	case cfg.Metrics.Path == "/v1/infer" || cfg.Metrics.Path == "/health":
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: fmt.Sprintf("metrics path %q collides with a gateway route", cfg.Metrics.Path),
		})
	}
	for i := 1; i < len(cfg.Metrics.LatencyBuckets); i++ {
		if cfg.Metrics.LatencyBuckets[i] <= cfg.Metrics.LatencyBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.latency_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("unknown sampler %q (expected always, never, ratio)", cfg.Tracing.Sampler),
		})
	}
	if ratio := cfg.Tracing.Ratio(); ratio < 0 || ratio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0 and 1",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}
