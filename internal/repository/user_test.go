package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Pg Unique Violation", &pgconn.PgError{Code: "23505"}, true},
		{"Wrapped Pg Unique Violation", fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"}), true},
		{"Pg Foreign Key Violation", &pgconn.PgError{Code: "23503"}, false},
		{"Pg Serialization Failure", &pgconn.PgError{Code: "40001"}, false},
		{"Sqlite Message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"Sqlite Wrapped Message", errors.New("constraint failed: UNIQUE constraint failed: users.email"), true},
		{"Unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}
