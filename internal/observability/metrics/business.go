package metrics

import "time"

// RecordVisitSummarized records the outcome of a visit summarization.
// A failed capability call is recorded as "fallback" because the request
// still succeeds with truncated content.
func RecordVisitSummarized(model bool) {
	outcome := "model"
	if !model {
		outcome = "fallback"
	}
	VisitsSummarizedTotal.WithLabelValues(outcome).Inc()
}

// RecordSummarizationDuration records the time taken by the summarization
// capability, whether or not it succeeded.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// UpdateVisitsTotal updates the stored-record gauge for one status.
// The stats refresher calls this periodically to reflect the current state.
func UpdateVisitsTotal(status string, count int64) {
	VisitsTotal.WithLabelValues(status).Set(float64(count))
}

// RecordStoreQuery records the duration of a document store operation.
// Operation should describe the call (e.g. "create_visit", "list_by_patient").
func RecordStoreQuery(operation string, duration time.Duration) {
	StoreQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
