package db

import (
	"database/sql"
)

// MigrateUp creates the summaries table and its indexes. Every statement is
// idempotent so the migration can run on each startup.
//
// Record identifiers are store-assigned opaque strings, and visit_date is an
// ISO 8601 string. History reads order by visit_date as text, which for this
// format matches chronological order within a single date representation.
// updated_at stays NULL until the first diagnosis update.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS summaries (
    id            TEXT PRIMARY KEY,
    original_text TEXT NOT NULL,
    summary       TEXT NOT NULL,
    patient_id    TEXT NOT NULL,
    visit_date    TEXT NOT NULL,
    timestamp     TIMESTAMPTZ NOT NULL DEFAULT now(),
    diagnosis     TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'pending_diagnosis',
    updated_at    TIMESTAMPTZ
)`); err != nil {
		return err
	}

	indexes := []string{
		// History reads filter on patient_id and order by visit_date
		`CREATE INDEX IF NOT EXISTS idx_summaries_patient_visit ON summaries(patient_id, visit_date DESC)`,
		// Status gauge refresh counts records per lifecycle state
		`CREATE INDEX IF NOT EXISTS idx_summaries_status ON summaries(status)`,
	}
	for _, idx := range indexes {
		if _, err := database.Exec(idx); err != nil {
			return err
		}
	}

	// Lifecycle guard on status values. PostgreSQL-specific constraint
	// syntax, error ignored when the constraint already exists.
	_, _ = database.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_summary_status'
    ) THEN
        ALTER TABLE summaries ADD CONSTRAINT chk_summary_status
        CHECK (status IN ('pending_diagnosis', 'completed'));
    END IF;
END $$;
`)

	return nil
}

// MigrateDown rolls back the database schema.
// Use with caution: this deletes every stored visit record.
func MigrateDown(database *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_summaries_patient_visit`,
		`DROP INDEX IF EXISTS idx_summaries_status`,
		`DROP TABLE IF EXISTS summaries CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := database.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
