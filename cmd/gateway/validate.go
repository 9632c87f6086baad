package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/gateway/pkg/cli"
	"mercator-hq/gateway/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the gateway configuration",
	Long: `Load the configuration (defaults, file, environment) and report the
effective settings, or every validation error found.

Examples:
  # Validate the default config file
  gateway validate

  # Validate a specific file and print the result as JSON
  gateway validate --config gateway.yaml --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, yaml")
}

// validationReport is the effective configuration summary.
type validationReport struct {
	Valid           bool   `json:"valid" yaml:"valid"`
	ConfigFile      string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	ListenAddress   string `json:"listen_address" yaml:"listen_address"`
	BackendURL      string `json:"backend_url" yaml:"backend_url"`
	BackendTimeout  string `json:"backend_timeout" yaml:"backend_timeout"`
	ErrorStatusCode int    `json:"error_status_code" yaml:"error_status_code"`
	MetricsPath     string `json:"metrics_path" yaml:"metrics_path"`
	LogLevel        string `json:"log_level" yaml:"log_level"`
	TracingEnabled  bool   `json:"tracing_enabled" yaml:"tracing_enabled"`
}

func (r validationReport) String() string {
	var b strings.Builder
	b.WriteString("✓ Configuration valid\n")
	if r.ConfigFile != "" {
		fmt.Fprintf(&b, "  config file:       %s\n", r.ConfigFile)
	}
	fmt.Fprintf(&b, "  listen address:    %s\n", r.ListenAddress)
	fmt.Fprintf(&b, "  backend:           %s (timeout %s)\n", r.BackendURL, r.BackendTimeout)
	fmt.Fprintf(&b, "  error status code: %d\n", r.ErrorStatusCode)
	fmt.Fprintf(&b, "  metrics path:      %s\n", r.MetricsPath)
	fmt.Fprintf(&b, "  log level:         %s\n", r.LogLevel)
	fmt.Fprintf(&b, "  tracing:           %t", r.TracingEnabled)
	return b.String()
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	path, err := resolveConfigPath(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return cli.WrapConfigError("", err)
	}

	report := validationReport{
		Valid:           true,
		ConfigFile:      path,
		ListenAddress:   cfg.Server.ListenAddress,
		BackendURL:      strings.TrimRight(cfg.Backend.URL, "/") + cfg.Backend.CompletionPath,
		BackendTimeout:  cfg.Backend.Timeout.String(),
		ErrorStatusCode: cfg.Relay.ErrorStatusCode,
		MetricsPath:     cfg.Telemetry.Metrics.Path,
		LogLevel:        cfg.Telemetry.Logging.Level,
		TracingEnabled:  cfg.Telemetry.Tracing.Enabled,
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report)
}
