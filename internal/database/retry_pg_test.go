package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"brewcircle/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Every attempt hits a serialization failure; the caller gets a transient
// storage error after the rollbacks.
func TestWithTxRetryExhaustsOnPostgresSerializationFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	serErr := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	for i := 0; i < 3; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE visits").WillReturnError(serErr)
		mock.ExpectRollback()
	}

	cfg := RetryConfig{Attempts: 3, BaseDelay: time.Millisecond}
	err := WithTxRetry(context.Background(), db, "visit_create", cfg, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE visits SET status = ? WHERE id = ?", "active", 1).Error
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeTransientStorage, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRetryDeadlockRecovers(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE visits").WillReturnError(&pgconn.PgError{Code: "40P01", Message: "deadlock detected"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE visits").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cfg := RetryConfig{Attempts: 3, BaseDelay: time.Millisecond}
	err := WithTxRetry(context.Background(), db, "visit_create", cfg, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE visits SET status = ? WHERE id = ?", "active", 1).Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRetryForeignKeyViolationDoesNotRetry(t *testing.T) {
	db, mock := setupMockDB(t)

	fkErr := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO visit_participations").WillReturnError(fkErr)
	mock.ExpectRollback()

	cfg := RetryConfig{Attempts: 3, BaseDelay: time.Millisecond}
	err := WithTxRetry(context.Background(), db, "visit_create", cfg, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO visit_participations (visit_id) VALUES (?)", 1).Error
	})
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23503", pgErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
