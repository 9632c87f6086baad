package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"mercator-hq/gateway/pkg/cli"

	"github.com/spf13/cobra"
)

// defaultConfigFile is read when present; its absence is not an error.
const defaultConfigFile = "gateway.yaml"

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Inference gateway - relay, measure and expose inference traffic",
	Long: `Gateway is a minimal HTTP front for an inference backend.

It forwards JSON requests on /v1/infer to <BACKEND_URL>/completion under a
fixed timeout, counts and times every request, and serves:
  - /metrics  Prometheus exposition (inference_requests_total, inference_latency_ms)
  - /health   liveness probe

Configuration is read from defaults, an optional YAML file and environment
variables, in that order. BACKEND_URL selects the backend.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
}

// resolveConfigPath returns the config file to load, or "" for defaults only.
// A missing file is an error only when --config was given explicitly.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	explicit := cmd.Flags().Changed("config")

	if _, err := os.Stat(cfgFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", cli.WrapConfigError("--config", fmt.Errorf("config file %q: %w", cfgFile, err))
		}
		if explicit {
			return "", cli.NewConfigError("--config", fmt.Sprintf("config file %q does not exist", cfgFile))
		}
		return "", nil
	}

	return cfgFile, nil
}
