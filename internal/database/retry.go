package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"brewcircle/internal/middleware"
	"brewcircle/internal/models"
	"brewcircle/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"log/slog"
)

// RetryConfig controls transaction retry behavior for contended writes.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryConfig bounds contended transactions to three attempts with
// linear backoff between them.
var DefaultRetryConfig = RetryConfig{
	Attempts:  3,
	BaseDelay: 50 * time.Millisecond,
}

// IsSerializationError reports whether err is a transient Postgres conflict
// (serialization failure, deadlock, or lock timeout) worth retrying.
func IsSerializationError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}

	// Fallback for drivers that surface conflicts as plain strings.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "lock timeout")
}

// WithTxRetry runs fn inside a transaction, retrying on transient conflicts
// up to cfg.Attempts times with linear backoff. Non-conflict errors abort
// immediately. When every attempt conflicts, the caller gets a transient
// storage error so it can surface a retryable failure to the client.
func WithTxRetry(ctx context.Context, db *gorm.DB, operation string, cfg RetryConfig, fn func(tx *gorm.DB) error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultRetryConfig.Attempts
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !IsSerializationError(err) {
			return err
		}

		lastErr = err
		observability.StorageTxRetries.WithLabelValues(operation).Inc()
		middleware.Logger.WarnContext(ctx, "Transaction conflict, retrying",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if attempt == cfg.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * cfg.BaseDelay):
		}
	}

	observability.StorageTxExhausted.WithLabelValues(operation).Inc()
	observability.RecordErrorInContext(ctx, lastErr)
	return models.NewTransientStorageError(lastErr)
}
