package visit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"medgenie/internal/domain/entity"
	"medgenie/internal/observability/metrics"
	"medgenie/internal/repository"
	"medgenie/internal/utils/text"
)

// Summarizer produces a condensed version of the given text.
// Implementations live in internal/infra/summarizer.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// fallbackRunes is how much of the original text survives when the
// summarization capability fails and the service degrades to truncation.
const fallbackRunes = 200

// CreateInput represents the input parameters for creating a visit summary.
// VisitDate is optional; when empty the server time at creation is used.
type CreateInput struct {
	Text      string
	PatientID string
	VisitDate string
}

// CreateResult carries the stored record's id and the summary returned to
// the caller.
type CreateResult struct {
	DocumentID string
	Summary    string
}

// UpdateDiagnosisInput represents the input parameters for recording a
// diagnosis on an existing visit.
type UpdateDiagnosisInput struct {
	DocumentID string
	Diagnosis  string
	PatientID  string
}

// Service provides visit management use cases.
// It handles the business logic for visit operations and delegates
// persistence to the repository and text condensation to the summarizer.
type Service struct {
	Repo       repository.VisitRepository
	Summarizer Summarizer

	// HistoryLimit caps history results when positive. Zero keeps the query
	// unbounded.
	HistoryLimit int
}

// CreateSummary summarizes the visit text and stores a new record with
// status pending_diagnosis and an empty diagnosis. The store assigns the id;
// the timestamp is stamped server-side on insert.
// Returns a ValidationError if a required field is missing.
func (s *Service) CreateSummary(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if in.Text == "" {
		return nil, &entity.ValidationError{Field: "text", Message: "is required"}
	}
	if in.PatientID == "" {
		return nil, &entity.ValidationError{Field: "patient_id", Message: "is required"}
	}

	summary := s.summarize(ctx, in.Text)

	visitDate := in.VisitDate
	if visitDate == "" {
		visitDate = time.Now().UTC().Format(time.RFC3339)
	}

	v := &entity.Visit{
		OriginalText: in.Text,
		Summary:      summary,
		PatientID:    in.PatientID,
		VisitDate:    visitDate,
		Diagnosis:    "",
		Status:       entity.StatusPendingDiagnosis,
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}

	return &CreateResult{DocumentID: v.ID, Summary: summary}, nil
}

// summarize runs the summarization capability and degrades to local
// truncation when it fails: the error is logged and swallowed, never
// surfaced to the caller. The artifact normalizer is applied to whichever
// text comes back, model-generated or fallback.
func (s *Service) summarize(ctx context.Context, input string) string {
	start := time.Now()
	summary, err := s.Summarizer.Summarize(ctx, input)
	metrics.RecordSummarizationDuration(time.Since(start))

	if err != nil {
		metrics.RecordVisitSummarized(false)
		slog.Default().Warn("summarization failed, falling back to truncation",
			slog.Int("input_runes", text.CountRunes(input)),
			slog.Any("error", err))
		summary = text.TruncateRunes(input, fallbackRunes) + "..."
	} else {
		metrics.RecordVisitSummarized(true)
	}

	return text.CleanModelArtifacts(summary)
}

// UpdateDiagnosis records a diagnosis on an existing visit, moving its
// status to completed and stamping updated_at server-side.
// Returns a ValidationError if a required field is missing.
// Returns ErrVisitNotFound when the id is unknown or the stored record
// belongs to a different patient.
func (s *Service) UpdateDiagnosis(ctx context.Context, in UpdateDiagnosisInput) error {
	if in.DocumentID == "" {
		return &entity.ValidationError{Field: "document_id", Message: "is required"}
	}
	if in.Diagnosis == "" {
		return &entity.ValidationError{Field: "diagnosis", Message: "is required"}
	}
	if in.PatientID == "" {
		return &entity.ValidationError{Field: "patient_id", Message: "is required"}
	}

	v, err := s.Repo.Get(ctx, in.DocumentID)
	if err != nil {
		return fmt.Errorf("get visit: %w", err)
	}
	if v == nil {
		return ErrVisitNotFound
	}
	if v.PatientID != in.PatientID {
		return ErrVisitNotFound
	}

	if err := s.Repo.UpdateDiagnosis(ctx, in.DocumentID, in.Diagnosis); err != nil {
		return fmt.Errorf("update diagnosis: %w", err)
	}
	return nil
}

// History retrieves the patient's visits ordered by visit_date descending.
// The order is string order over the stored values, which matches
// chronological order only while all dates are strict ISO 8601.
// An empty result is not an error.
func (s *Service) History(ctx context.Context, patientID string) ([]*entity.Visit, error) {
	if patientID == "" {
		return nil, &entity.ValidationError{Field: "patient_id", Message: "is required"}
	}

	visits, err := s.Repo.ListByPatient(ctx, patientID, s.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list patient history: %w", err)
	}
	return visits, nil
}
