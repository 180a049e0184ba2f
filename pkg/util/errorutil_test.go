package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("passes through domain errors", func(t *testing.T) {
		original := NewForbidden("insufficient role")
		mapped := ToDomainError(original)
		assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
		assert.Equal(t, "FORBIDDEN", mapped.Code)
	})

	t.Run("unwraps wrapped domain errors", func(t *testing.T) {
		wrapped := fmt.Errorf("loading user: %w", NewNotFound("user", nil))
		mapped := ToDomainError(wrapped)
		assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
	})

	t.Run("missing row becomes 404", func(t *testing.T) {
		mapped := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
		assert.Equal(t, "NOT_FOUND", mapped.Code)
	})

	t.Run("unique violation becomes 409 naming the field", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		mapped := ToDomainError(pgErr)
		require.Equal(t, http.StatusConflict, mapped.HTTPStatus)
		assert.Equal(t, "email", mapped.Details["field"])
	})

	t.Run("composite constraint keeps full column part", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "subscriptions_user_magazine_key"}
		mapped := ToDomainError(pgErr)
		assert.Equal(t, "user_magazine", mapped.Details["field"])
	})

	t.Run("anything else is an internal error", func(t *testing.T) {
		mapped := ToDomainError(errors.New("connection refused"))
		assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
		assert.Equal(t, "internal server error", mapped.Message)
	})
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
}
