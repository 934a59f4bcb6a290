// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application's business metrics:
//   - Visit record counts by status
//   - Summarization outcomes and latency
//   - Document store query latency
//
// HTTP request metrics are owned by the handler layer so that the middleware
// and its path normalization stay together. All metrics are registered with
// the Prometheus default registry and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "medgenie/internal/observability/metrics"
//
//	func refreshCounts(pending, completed int64) {
//	    metrics.UpdateVisitsTotal(entity.StatusPendingDiagnosis, pending)
//	    metrics.UpdateVisitsTotal(entity.StatusCompleted, completed)
//	}
package metrics
