package db

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_Success(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	// Expect summaries table creation
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS summaries").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Expect index creations
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_summaries_patient_visit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_summaries_status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// The status constraint block is error-ignored, no expectation needed

	// Execute migration
	err = MigrateUp(database)
	assert.NoError(t, err)

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_TableError(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	// Expect summaries table creation to fail
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS summaries").
		WillReturnError(sql.ErrConnDone)

	// Execute migration
	err = MigrateUp(database)
	assert.Error(t, err)
	assert.Equal(t, sql.ErrConnDone, err)

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_IndexError(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	// Expect summaries table creation
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS summaries").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Expect first index to fail
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_summaries_patient_visit").
		WillReturnError(sql.ErrTxDone)

	// Execute migration
	err = MigrateUp(database)
	assert.Error(t, err)
	assert.Equal(t, sql.ErrTxDone, err)

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_Idempotent(t *testing.T) {
	// Test that running MigrateUp multiple times is safe (idempotent)
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	for i := 0; i < 2; i++ {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS summaries").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_summaries_patient_visit").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_summaries_status").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	// Execute migration twice
	require.NoError(t, MigrateUp(database))
	require.NoError(t, MigrateUp(database))

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown_Success(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	// Expect drops in reverse order of creation
	mock.ExpectExec("DROP INDEX IF EXISTS idx_summaries_patient_visit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP INDEX IF EXISTS idx_summaries_status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS summaries").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Execute rollback
	err = MigrateDown(database)
	assert.NoError(t, err)

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown_Error(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	// Expect first drop to fail
	mock.ExpectExec("DROP INDEX IF EXISTS idx_summaries_patient_visit").
		WillReturnError(sql.ErrConnDone)

	// Execute rollback
	err = MigrateDown(database)
	assert.Error(t, err)
	assert.Equal(t, sql.ErrConnDone, err)

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}
