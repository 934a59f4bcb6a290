// Package entity defines the core domain entities and validation logic for the
// application. It contains the fundamental business object, the clinical
// Visit, along with its status lifecycle and domain-specific errors.
package entity

import "time"

// Visit status values. A record starts pending and moves forward exactly once
// when a diagnosis is recorded; no other transition is defined. Repeated
// diagnosis updates are idempotent overwrites of an already completed record.
const (
	StatusPendingDiagnosis = "pending_diagnosis"
	StatusCompleted        = "completed"
)

// Visit represents a single clinical visit in the system: the raw text
// captured during the visit, the generated summary, and the diagnosis
// recorded afterwards.
type Visit struct {
	// ID is an opaque identifier assigned by the store on creation.
	ID           string
	OriginalText string
	Summary      string
	PatientID    string
	// VisitDate is kept exactly as the caller supplied it (ISO 8601), or the
	// server time at creation when absent. History ordering compares these
	// values as strings, which matches chronological order only while every
	// stored value is strict ISO 8601.
	VisitDate string
	// Timestamp is the server-assigned creation time, set once.
	Timestamp time.Time
	Diagnosis string
	Status    string
	// UpdatedAt stays zero until the first diagnosis update.
	UpdatedAt time.Time
}
