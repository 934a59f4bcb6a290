package visit_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"medgenie/internal/domain/entity"
	visitUC "medgenie/internal/usecase/visit"
)

/* ───────── stubs ───────── */

// Minimal in-memory VisitRepository.
type stubRepo struct {
	data      map[string]*entity.Visit
	nextID    int
	err       error // forces every method to fail when set
	lastLimit int
}

func newStub() *stubRepo {
	return &stubRepo{data: map[string]*entity.Visit{}, nextID: 1}
}

// --- VisitRepository ---

func (s *stubRepo) Create(_ context.Context, v *entity.Visit) error {
	if s.err != nil {
		return s.err
	}
	v.ID = fmt.Sprintf("doc-%d", s.nextID)
	s.nextID++
	v.Timestamp = time.Now().UTC()
	stored := *v
	s.data[v.ID] = &stored
	return nil
}

func (s *stubRepo) Get(_ context.Context, id string) (*entity.Visit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data[id], nil
}

func (s *stubRepo) UpdateDiagnosis(_ context.Context, id, diagnosis string) error {
	if s.err != nil {
		return s.err
	}
	v, ok := s.data[id]
	if !ok {
		return errors.New("stub: update on missing id")
	}
	v.Diagnosis = diagnosis
	v.Status = entity.StatusCompleted
	v.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubRepo) ListByPatient(_ context.Context, patientID string, limit int) ([]*entity.Visit, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Visit
	for _, v := range s.data {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubRepo) Probe(_ context.Context) error {
	return s.err
}

func (s *stubRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for _, v := range s.data {
		if v.Status == status {
			n++
		}
	}
	return n, nil
}

// stubSummarizer returns a fixed output or a fixed error.
type stubSummarizer struct {
	out       string
	err       error
	lastInput string
}

func (s *stubSummarizer) Summarize(_ context.Context, text string) (string, error) {
	s.lastInput = text
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

/* ───────── CreateSummary ───────── */

func TestCreateSummary(t *testing.T) {
	repo := newStub()
	sum := &stubSummarizer{out: "Persistent cough, mild fever."}
	svc := visitUC.Service{Repo: repo, Summarizer: sum}

	in := visitUC.CreateInput{
		Text:      "Patient presents with persistent cough and mild fever for three days.",
		PatientID: "patient-42",
	}
	res, err := svc.CreateSummary(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateSummary: %v", err)
	}
	if res.DocumentID == "" {
		t.Error("expected a store-assigned document id")
	}
	if res.Summary != "Persistent cough, mild fever." {
		t.Errorf("summary = %q", res.Summary)
	}
	if sum.lastInput != in.Text {
		t.Errorf("summarizer received %q, want verbatim input", sum.lastInput)
	}

	stored := repo.data[res.DocumentID]
	if stored == nil {
		t.Fatal("record not stored")
	}
	if stored.OriginalText != in.Text {
		t.Errorf("original_text = %q, want verbatim input", stored.OriginalText)
	}
	if stored.Status != entity.StatusPendingDiagnosis {
		t.Errorf("status = %q, want %q", stored.Status, entity.StatusPendingDiagnosis)
	}
	if stored.Diagnosis != "" {
		t.Errorf("diagnosis = %q, want empty", stored.Diagnosis)
	}
	if stored.VisitDate == "" {
		t.Error("visit_date should default to server time")
	}
	if _, perr := time.Parse(time.RFC3339, stored.VisitDate); perr != nil {
		t.Errorf("defaulted visit_date %q is not RFC 3339: %v", stored.VisitDate, perr)
	}
}

func TestCreateSummaryKeepsSuppliedVisitDate(t *testing.T) {
	repo := newStub()
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{out: "s"}}

	res, err := svc.CreateSummary(context.Background(), visitUC.CreateInput{
		Text:      "checkup",
		PatientID: "p1",
		VisitDate: "2024-03-05T09:30:00Z",
	})
	if err != nil {
		t.Fatalf("CreateSummary: %v", err)
	}
	if got := repo.data[res.DocumentID].VisitDate; got != "2024-03-05T09:30:00Z" {
		t.Errorf("visit_date = %q, want the supplied value verbatim", got)
	}
}

func TestCreateSummaryNormalizesModelOutput(t *testing.T) {
	repo := newStub()
	sum := &stubSummarizer{out: "[CLS] cough  and\tfever [SEP]"}
	svc := visitUC.Service{Repo: repo, Summarizer: sum}

	res, err := svc.CreateSummary(context.Background(), visitUC.CreateInput{Text: "t", PatientID: "p"})
	if err != nil {
		t.Fatalf("CreateSummary: %v", err)
	}
	if res.Summary != "cough and fever" {
		t.Errorf("summary = %q, want artifact markers stripped and whitespace collapsed", res.Summary)
	}
	if repo.data[res.DocumentID].Summary != res.Summary {
		t.Error("stored summary differs from returned summary")
	}
}

func TestCreateSummaryFallsBackOnSummarizerError(t *testing.T) {
	repo := newStub()
	sum := &stubSummarizer{err: errors.New("model unavailable")}
	svc := visitUC.Service{Repo: repo, Summarizer: sum}

	long := strings.Repeat("abcde ", 50) // 300 chars
	res, err := svc.CreateSummary(context.Background(), visitUC.CreateInput{Text: long, PatientID: "p1"})
	if err != nil {
		t.Fatalf("summarizer failure must not fail the request: %v", err)
	}

	want := strings.TrimSpace(long[:200]) + "..."
	if res.Summary != want {
		t.Errorf("fallback summary = %q, want first 200 chars plus ellipsis", res.Summary)
	}
	if repo.data[res.DocumentID] == nil {
		t.Error("record should be stored despite the fallback")
	}
}

func TestCreateSummaryFallbackIsNormalized(t *testing.T) {
	svc := visitUC.Service{Repo: newStub(), Summarizer: &stubSummarizer{err: errors.New("boom")}}

	res, err := svc.CreateSummary(context.Background(), visitUC.CreateInput{
		Text:      "short [SEP] note",
		PatientID: "p1",
	})
	if err != nil {
		t.Fatalf("CreateSummary: %v", err)
	}
	if res.Summary != "short note..." {
		t.Errorf("fallback summary = %q, want normalized truncation with ellipsis", res.Summary)
	}
}

func TestCreateSummaryValidation(t *testing.T) {
	repo := newStub()
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{out: "s"}}

	cases := []struct {
		name  string
		in    visitUC.CreateInput
		field string
	}{
		{"missing text", visitUC.CreateInput{PatientID: "p1"}, "text"},
		{"missing patient_id", visitUC.CreateInput{Text: "t"}, "patient_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSummary(context.Background(), tc.in)
			var verr *entity.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
			if len(repo.data) != 0 {
				t.Error("store must not be touched on validation failure")
			}
		})
	}
}

func TestCreateSummaryRepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("store down")
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{out: "s"}}

	_, err := svc.CreateSummary(context.Background(), visitUC.CreateInput{Text: "t", PatientID: "p"})
	if err == nil || !strings.Contains(err.Error(), "create visit") {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

/* ───────── UpdateDiagnosis ───────── */

func seedVisit(repo *stubRepo, patientID string) string {
	v := &entity.Visit{
		OriginalText: "text",
		Summary:      "summary",
		PatientID:    patientID,
		VisitDate:    "2024-01-01T00:00:00Z",
		Status:       entity.StatusPendingDiagnosis,
	}
	_ = repo.Create(context.Background(), v)
	return v.ID
}

func TestUpdateDiagnosis(t *testing.T) {
	repo := newStub()
	id := seedVisit(repo, "patient-42")
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{}}

	err := svc.UpdateDiagnosis(context.Background(), visitUC.UpdateDiagnosisInput{
		DocumentID: id,
		Diagnosis:  "acute bronchitis",
		PatientID:  "patient-42",
	})
	if err != nil {
		t.Fatalf("UpdateDiagnosis: %v", err)
	}

	stored := repo.data[id]
	if stored.Status != entity.StatusCompleted {
		t.Errorf("status = %q, want %q", stored.Status, entity.StatusCompleted)
	}
	if stored.Diagnosis != "acute bronchitis" {
		t.Errorf("diagnosis = %q", stored.Diagnosis)
	}
	if stored.UpdatedAt.IsZero() {
		t.Error("updated_at should be stamped")
	}
}

func TestUpdateDiagnosisUnknownID(t *testing.T) {
	repo := newStub()
	seedVisit(repo, "patient-42")
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{}}

	err := svc.UpdateDiagnosis(context.Background(), visitUC.UpdateDiagnosisInput{
		DocumentID: "doc-missing",
		Diagnosis:  "anything",
		PatientID:  "patient-42",
	})
	if !errors.Is(err, visitUC.ErrVisitNotFound) {
		t.Fatalf("expected ErrVisitNotFound, got %v", err)
	}
	for _, v := range repo.data {
		if v.Status != entity.StatusPendingDiagnosis {
			t.Error("store must not be mutated on not-found")
		}
	}
}

func TestUpdateDiagnosisPatientMismatch(t *testing.T) {
	repo := newStub()
	id := seedVisit(repo, "patient-42")
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{}}

	err := svc.UpdateDiagnosis(context.Background(), visitUC.UpdateDiagnosisInput{
		DocumentID: id,
		Diagnosis:  "anything",
		PatientID:  "someone-else",
	})
	if !errors.Is(err, visitUC.ErrVisitNotFound) {
		t.Fatalf("mismatched patient must look like not-found, got %v", err)
	}
	if repo.data[id].Status != entity.StatusPendingDiagnosis {
		t.Error("record must stay untouched on patient mismatch")
	}
}

func TestUpdateDiagnosisValidation(t *testing.T) {
	svc := visitUC.Service{Repo: newStub(), Summarizer: &stubSummarizer{}}

	cases := []struct {
		name  string
		in    visitUC.UpdateDiagnosisInput
		field string
	}{
		{"missing document_id", visitUC.UpdateDiagnosisInput{Diagnosis: "d", PatientID: "p"}, "document_id"},
		{"missing diagnosis", visitUC.UpdateDiagnosisInput{DocumentID: "id", PatientID: "p"}, "diagnosis"},
		{"missing patient_id", visitUC.UpdateDiagnosisInput{DocumentID: "id", Diagnosis: "d"}, "patient_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.UpdateDiagnosis(context.Background(), tc.in)
			var verr *entity.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestUpdateDiagnosisRepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("store down")
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{}}

	err := svc.UpdateDiagnosis(context.Background(), visitUC.UpdateDiagnosisInput{
		DocumentID: "doc-1", Diagnosis: "d", PatientID: "p",
	})
	if err == nil || errors.Is(err, visitUC.ErrVisitNotFound) {
		t.Errorf("store failure must not masquerade as not-found, got %v", err)
	}
}

/* ───────── History ───────── */

func TestHistory(t *testing.T) {
	repo := newStub()
	seedVisit(repo, "patient-42")
	seedVisit(repo, "patient-42")
	seedVisit(repo, "other")
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{}}

	visits, err := svc.History(context.Background(), "patient-42")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(visits) != 2 {
		t.Errorf("got %d visits, want 2", len(visits))
	}
	for _, v := range visits {
		if v.ID == "" {
			t.Error("every history entry must carry its id")
		}
	}
}

func TestHistoryEmptyIsNotAnError(t *testing.T) {
	svc := visitUC.Service{Repo: newStub(), Summarizer: &stubSummarizer{}}

	visits, err := svc.History(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("empty history must not be an error: %v", err)
	}
	if len(visits) != 0 {
		t.Errorf("got %d visits, want none", len(visits))
	}
}

func TestHistoryForwardsLimit(t *testing.T) {
	repo := newStub()
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{}, HistoryLimit: 25}

	if _, err := svc.History(context.Background(), "p"); err != nil {
		t.Fatalf("History: %v", err)
	}
	if repo.lastLimit != 25 {
		t.Errorf("limit forwarded = %d, want 25", repo.lastLimit)
	}
}

func TestHistoryValidation(t *testing.T) {
	svc := visitUC.Service{Repo: newStub(), Summarizer: &stubSummarizer{}}

	_, err := svc.History(context.Background(), "")
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestHistoryRepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("store down")
	svc := visitUC.Service{Repo: repo, Summarizer: &stubSummarizer{}}

	if _, err := svc.History(context.Background(), "p"); err == nil {
		t.Error("expected store error to propagate")
	}
}
