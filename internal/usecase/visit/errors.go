// Package visit provides use cases for clinical visit records.
// It implements the business logic for creating visit summaries, recording
// diagnoses, and retrieving per-patient history, including validation and
// interaction with the visit repository.
package visit

import "errors"

// Sentinel errors for visit use case operations.
var (
	// ErrVisitNotFound indicates that no visit exists with the requested
	// document id. A visit that exists but belongs to a different patient is
	// reported the same way, so the endpoint cannot be used to probe which
	// ids exist.
	ErrVisitNotFound = errors.New("document not found")
)
