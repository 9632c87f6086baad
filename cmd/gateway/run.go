package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/gateway/pkg/backend"
	"mercator-hq/gateway/pkg/cli"
	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/relay"
	"mercator-hq/gateway/pkg/server"
	"mercator-hq/gateway/pkg/telemetry/logging"
	"mercator-hq/gateway/pkg/telemetry/metrics"
	"mercator-hq/gateway/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The backend URL is read once at startup. With --watch, edits to the config
file change the log level without a restart; other settings need a restart.

Examples:
  # Start with defaults
  gateway run

  # Start with custom config
  gateway run --config /etc/gateway/gateway.yaml

  # Override listen address
  gateway run --listen 127.0.0.1:8080

  # Validate config without starting server
  gateway run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload the log level when the config file changes")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath(cmd)
	if err != nil {
		return err
	}

	if err := config.Initialize(path); err != nil {
		return cli.WrapConfigError("", err)
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError("", err)
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return cli.WrapConfigError("telemetry.logging", err)
	}
	slog.SetDefault(logger.Slog())

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	printBanner(cmd, path, cfg)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	srv, err := newGateway(cfg, tracer)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if runFlags.watch {
		startWatcher(ctx, path, logger)
	}

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Server stopped")
	return nil
}

// newGateway assembles the relay path and the HTTP server.
func newGateway(cfg *config.Config, tracer relay.SpanStarter) (*server.Server, error) {
	client, err := backend.New(&cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	r, err := relay.New(client, collector, tracer)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay: %w", err)
	}

	slog.Info("relay configured",
		"backend", client.Endpoint(),
		"timeout", cfg.Backend.Timeout.String(),
	)

	return server.NewServer(cfg, r, collector.Handler()), nil
}

// startWatcher reloads the log level whenever the config file changes.
func startWatcher(ctx context.Context, path string, logger *logging.Logger) {
	if path == "" {
		slog.Warn("--watch ignored: no config file")
		return
	}

	watcher, err := config.NewWatcher(path, logger.Slog())
	if err != nil {
		slog.Warn("config watcher disabled", "error", err)
		return
	}

	go func() {
		defer watcher.Close()
		err := watcher.Watch(ctx, func(cfg *config.Config) {
			if err := logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
				slog.Warn("failed to apply log level", "error", err)
			}
		})
		if err != nil {
			slog.Error("config watcher stopped", "error", err)
		}
	}()
}

func printBanner(cmd *cobra.Command, path string, cfg *config.Config) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Inference Gateway v%s\n", Version)
	if path != "" {
		fmt.Fprintf(out, "Loading configuration from: %s\n", path)
	} else {
		fmt.Fprintln(out, "Using default configuration")
	}
	fmt.Fprintf(out, "✓ Backend: %s%s\n", cfg.Backend.URL, cfg.Backend.CompletionPath)
	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.ListenAddress)
	fmt.Fprintf(out, "✓ Health endpoint: %s\n", server.HealthPath)
	fmt.Fprintf(out, "✓ Metrics endpoint: %s\n", cfg.Telemetry.Metrics.Path)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
