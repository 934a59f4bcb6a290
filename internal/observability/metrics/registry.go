// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics track application-specific operations. HTTP middleware
// metrics live in the handler layer; these cover the visit domain itself.
var (
	// VisitsTotal tracks the number of stored visit records by status.
	// Refreshed periodically by the stats refresher.
	VisitsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "visits_total",
			Help: "Total number of visit records in the store by status",
		},
		[]string{"status"},
	)

	// VisitsSummarizedTotal counts summarization outcomes. A "fallback"
	// outcome means the capability failed and truncation was served instead.
	VisitsSummarizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visits_summarized_total",
			Help: "Total number of visit summarizations by outcome",
		},
		[]string{"outcome"},
	)

	// SummarizationDuration measures time spent in the summarization
	// capability per create request, including failed attempts.
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize a visit",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// StoreQueryDuration measures document store operation duration.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)
