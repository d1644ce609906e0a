package postgresql

import (
	"errors"
	"fmt"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateInvalidText          = "22P02"
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// mapError turns concurrency failures reported by PostgreSQL into
// apperror.ErrPersistenceConflict and malformed literals into
// apperror.ErrInvalidInput. Other errors pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateUniqueViolation:
		return fmt.Errorf("%w: %s", apperror.ErrPersistenceConflict, pgErr.Message)
	case sqlStateInvalidText:
		return fmt.Errorf("%w: %s", apperror.ErrInvalidInput, pgErr.Message)
	}
	return err
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateUniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
}

// isValidID reports whether id can name a row. Every primary key is a UUID,
// so anything else is treated as unknown rather than sent to the server.
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
