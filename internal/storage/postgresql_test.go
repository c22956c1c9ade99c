package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
)

func TestMapError(t *testing.T) {
	plain := errors.New("boom")

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{
			name:    "no rows",
			err:     sql.ErrNoRows,
			wantIs:  apperrors.ErrNotFound,
			wantMsg: "not found",
		},
		{
			name:    "known unique violation",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			wantIs:  apperrors.ErrConflict,
			wantMsg: "user with this email already exists",
		},
		{
			name:    "unknown unique violation",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "something_else"},
			wantIs:  apperrors.ErrConflict,
			wantMsg: "already exists",
		},
		{
			name:    "foreign key violation",
			err:     &pgconn.PgError{Code: "23503", ConstraintName: "lessons_course_id_fkey"},
			wantIs:  apperrors.ErrValidation,
			wantMsg: "course does not exist",
		},
		{
			name:    "check violation",
			err:     &pgconn.PgError{Code: "23514", ConstraintName: "payments_amount_check"},
			wantIs:  apperrors.ErrValidation,
			wantMsg: "amount must be positive",
		},
		{
			name:   "other error passes through",
			err:    plain,
			wantIs: plain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			assert.ErrorIs(t, got, tt.wantIs)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apperrors.Message(got))
			}
		})
	}
}

func TestNotFoundAddsMessage(t *testing.T) {
	err := notFound(apperrors.ErrNotFound, "course not found")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "course not found", apperrors.Message(err))

	other := errors.New("boom")
	assert.Same(t, other, notFound(other, "course not found"))
}

func TestCheckCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, checkCtx(ctx, "op"))
	cancel()
	assert.ErrorIs(t, checkCtx(ctx, "op"), context.Canceled)
}
