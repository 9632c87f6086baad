// Package server provides the HTTP server for the inference gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/proxy/handlers"
	"mercator-hq/gateway/pkg/proxy/middleware"
	"mercator-hq/gateway/pkg/telemetry/tracing"
)

// InferPath is the route inference requests are accepted on.
const InferPath = "/v1/infer"

// HealthPath is the liveness route.
const HealthPath = "/health"

// ErrServerStopped is returned by Start after the server has been shut down.
var ErrServerStopped = errors.New("server has been shut down")

// Server is the HTTP server for the inference gateway.
type Server struct {
	config          *config.ServerConfig
	metricsPath     string
	errorStatusCode int
	relay           handlers.Forwarder
	metricsHandler  http.Handler

	httpServer   *http.Server
	listener     net.Listener
	ready        chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	stopped      bool
}

// NewServer creates a new gateway server. metricsHandler serves the
// Prometheus exposition on the configured metrics path.
func NewServer(cfg *config.Config, relay handlers.Forwarder, metricsHandler http.Handler) *Server {
	return &Server{
		config:          &cfg.Server,
		metricsPath:     cfg.Telemetry.Metrics.Path,
		errorStatusCode: cfg.Relay.ErrorStatusCode,
		relay:           relay,
		metricsHandler:  metricsHandler,
		ready:           make(chan struct{}),
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled or the listener fails. On cancellation it shuts down gracefully.
// A server that has been shut down cannot be started again.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	if s.stopped {
		s.mu.Unlock()
		return ErrServerStopped
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server", "address", listener.Addr().String())

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()
	close(s.ready)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.stopped = true
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// Ready is closed once the server is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the address the server is listening on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle(InferPath, handlers.NewInferHandler(s.relay, s.errorStatusCode))
	mux.Handle(HealthPath, handlers.NewHealthHandler())
	mux.Handle(s.metricsPath, s.metricsHandler)

	return middleware.Chain(mux,
		middleware.RequestIDMiddleware,
		tracing.HTTPMiddleware,
		middleware.LoggingMiddleware,
		middleware.RecoveryMiddleware,
	)
}
