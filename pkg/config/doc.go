// Package config provides configuration management for the inference gateway.
//
// This package handles loading, validating, and managing configuration from
// an optional YAML file with environment variable overrides.
//
// # Configuration Loading
//
//  1. Defaults only:
//     cfg := config.NewDefaultConfig()
//
//  2. From a YAML file:
//     cfg, err := config.LoadConfig("gateway.yaml")
//
//  3. From a YAML file (or defaults, with an empty path) plus environment overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("gateway.yaml")
//
// # Environment Variable Overrides
//
//   - BACKEND_URL overrides backend.url (read once at startup)
//   - GATEWAY_LISTEN_ADDRESS overrides server.listen_address
//   - GATEWAY_BACKEND_TIMEOUT overrides backend.timeout
//   - GATEWAY_LOG_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher reloads the file on change. Only settings that are safe to change
// at runtime are applied by the caller (currently the log level); the backend
// URL is never reloaded.
package config
