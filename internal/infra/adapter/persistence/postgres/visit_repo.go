package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medgenie/internal/domain/entity"
	"medgenie/internal/observability/metrics"
	"medgenie/internal/repository"
)

// DB is the query surface the repository uses. Both *sql.DB and
// circuitbreaker.DBCircuitBreaker satisfy it, so the store runs with or
// without breaker protection depending on what the caller wires in.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type VisitRepo struct{ db DB }

func NewVisitRepo(db DB) repository.VisitRepository {
	return &VisitRepo{db: db}
}

// scanVisit is a helper function to scan a visit row. updated_at is NULL
// until the first diagnosis update, so it goes through sql.NullTime and
// maps to the zero time.
func scanVisit(rows *sql.Rows) (*entity.Visit, error) {
	var visit entity.Visit
	var updatedAt sql.NullTime
	if err := rows.Scan(
		&visit.ID, &visit.OriginalText, &visit.Summary,
		&visit.PatientID, &visit.VisitDate, &visit.Timestamp,
		&visit.Diagnosis, &visit.Status, &updatedAt,
	); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		visit.UpdatedAt = updatedAt.Time
	}
	return &visit, nil
}

// Create stamps the record server-side and inserts it. The id and timestamp
// are assigned here, never taken from the caller; updated_at is left NULL.
func (repo *VisitRepo) Create(ctx context.Context, visit *entity.Visit) error {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("create_visit", time.Since(start)) }()

	visit.ID = uuid.New().String()
	visit.Timestamp = time.Now().UTC()

	const query = `
INSERT INTO summaries (id, original_text, summary, patient_id, visit_date, timestamp, diagnosis, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		visit.ID, visit.OriginalText, visit.Summary,
		visit.PatientID, visit.VisitDate, visit.Timestamp,
		visit.Diagnosis, visit.Status,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *VisitRepo) Get(ctx context.Context, id string) (*entity.Visit, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("get_visit", time.Since(start)) }()

	const query = `
SELECT id, original_text, summary, patient_id, visit_date, timestamp, diagnosis, status, updated_at
FROM summaries
WHERE id = $1
LIMIT 1`
	var visit entity.Visit
	var updatedAt sql.NullTime
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&visit.ID, &visit.OriginalText, &visit.Summary,
		&visit.PatientID, &visit.VisitDate, &visit.Timestamp,
		&visit.Diagnosis, &visit.Status, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if updatedAt.Valid {
		visit.UpdatedAt = updatedAt.Time
	}
	return &visit, nil
}

// UpdateDiagnosis records the diagnosis, moves the record to completed and
// stamps updated_at. Completed is terminal, so re-running the statement on
// an already completed record only rewrites the diagnosis.
func (repo *VisitRepo) UpdateDiagnosis(ctx context.Context, id string, diagnosis string) error {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("update_diagnosis", time.Since(start)) }()

	const query = `
UPDATE summaries SET
       diagnosis  = $1,
       status     = $2,
       updated_at = now()
WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, query, diagnosis, entity.StatusCompleted, id)
	if err != nil {
		return fmt.Errorf("UpdateDiagnosis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateDiagnosis: no rows affected")
	}
	return nil
}

func (repo *VisitRepo) ListByPatient(ctx context.Context, patientID string, limit int) ([]*entity.Visit, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("list_by_patient", time.Since(start)) }()

	query := `
SELECT id, original_text, summary, patient_id, visit_date, timestamp, diagnosis, status, updated_at
FROM summaries
WHERE patient_id = $1
ORDER BY visit_date DESC`
	args := []interface{}{patientID}
	if limit > 0 {
		query += `
LIMIT $2`
		args = append(args, limit)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByPatient: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Preallocate to reduce reallocation on typical history sizes
	visits := make([]*entity.Visit, 0, 50)
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByPatient: %w", err)
		}
		visits = append(visits, visit)
	}
	return visits, rows.Err()
}

// Probe reads at most one record to verify store connectivity. An empty
// table is a healthy outcome; only transport and scan failures count.
func (repo *VisitRepo) Probe(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("probe", time.Since(start)) }()

	const query = `SELECT id FROM summaries LIMIT 1`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("Probe: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("Probe: Scan: %w", err)
		}
	}
	return rows.Err()
}

func (repo *VisitRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("count_by_status", time.Since(start)) }()

	const query = `SELECT COUNT(*) FROM summaries WHERE status = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByStatus: %w", err)
	}
	return count, nil
}
