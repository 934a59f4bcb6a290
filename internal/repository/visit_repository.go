package repository

import (
	"context"

	"medgenie/internal/domain/entity"
)

type VisitRepository interface {
	// Create inserts a new visit and fills in the store-assigned ID.
	Create(ctx context.Context, visit *entity.Visit) error
	// Get retrieves a visit by its store-assigned ID.
	// Returns (nil, nil) if the visit is not found.
	Get(ctx context.Context, id string) (*entity.Visit, error)
	// UpdateDiagnosis records a diagnosis on an existing visit: sets the
	// diagnosis text, moves status to completed, and stamps updated_at with
	// the server time.
	UpdateDiagnosis(ctx context.Context, id, diagnosis string) error
	// ListByPatient retrieves the patient's visits ordered by visit_date
	// descending (string order over the stored values). limit 0 means no cap.
	ListByPatient(ctx context.Context, patientID string, limit int) ([]*entity.Visit, error)
	// Probe reads at most one record to confirm the store is reachable.
	Probe(ctx context.Context) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}
