// Package server provides the HTTP server for the inference gateway.
//
// The server ties together the handlers and middleware and manages the
// listener lifecycle.
//
// # Routes
//
//	POST /v1/infer   relay to the backend
//	GET  /health     liveness, {"ok": true}
//	GET  /metrics    Prometheus exposition (path configurable)
//
// # Basic Usage
//
//	srv := server.NewServer(cfg, relay, collector.Handler())
//
//	ctx := cli.SetupSignalHandler()
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled, then drains in-flight requests for up
// to server.shutdown_timeout. Relayed backend calls are detached from the
// inbound request, so the shutdown timeout should exceed the backend timeout.
package server
