package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// This handler exposes all registered metrics in the standard Prometheus
// exposition format. It should be mounted at the path specified in the
// MetricsConfig (typically "/metrics"). Scraping only reads the registry.
//
// Example:
//
//	collector := metrics.NewCollector(cfg, nil)
//	mux.Handle("/metrics", collector.Handler())
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			// Enable OpenMetrics encoding when the scraper asks for it
			EnableOpenMetrics: true,

			// Serve whatever could be gathered if one collector fails
			ErrorHandling: promhttp.ContinueOnError,

			ErrorLog: slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		},
	)
}
