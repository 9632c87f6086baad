// Package logging provides structured logging for the gateway.
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON and text output formats
//   - A level that can be changed at runtime (config hot reload)
//   - Context-aware logging with request and trace IDs
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	// Later, from the config watcher
//	_ = logger.SetLevel("debug")
//
//	// Request-scoped logging
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.WithContext(ctx).Info("relayed")  // includes request_id
package logging
