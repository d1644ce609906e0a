package postgresql

import (
	"errors"
	"testing"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialization failure", &pgconn.PgError{Code: sqlStateSerializationFailure}, apperror.ErrPersistenceConflict},
		{"deadlock", &pgconn.PgError{Code: sqlStateDeadlockDetected}, apperror.ErrPersistenceConflict},
		{"unique violation", &pgconn.PgError{Code: sqlStateUniqueViolation}, apperror.ErrPersistenceConflict},
		{"malformed uuid literal", &pgconn.PgError{Code: sqlStateInvalidText}, apperror.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err), tt.want)
		})
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, mapError(plain))
	assert.Nil(t, mapError(nil))
}

func TestIsValidID(t *testing.T) {
	assert.True(t, isValidID("8f14e45f-ceea-467f-a0e8-3d1f6f4b2c11"))
	assert.False(t, isValidID(""))
	assert.False(t, isValidID("abc"))
	assert.False(t, isValidID("8f14e45f-ceea-467f-a0e8"))
}
