// Package observability holds the logging, metrics, and tracing support
// the API service runs with.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus gauges and counters for the visit domain
//   - tracing: OpenTelemetry middleware and tracer access
//
// The split matters operationally: HTTP-layer metrics live with the HTTP
// middleware, while everything a dashboard needs about visits as such
// (counts by status, summarization outcomes, store latency) is recorded
// here, regardless of which code path produced it.
//
// Example usage:
//
//	import (
//	    "medgenie/internal/observability/logging"
//	    "medgenie/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordVisitSummarized(true)
//	}
package observability
