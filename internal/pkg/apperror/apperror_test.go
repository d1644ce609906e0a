package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	errRequestNotFound := New(KindNotFound, "leave request not found")
	wrapped := fmt.Errorf("approve: %w", errRequestNotFound)

	assert.True(t, errors.Is(wrapped, errRequestNotFound))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidState))
}

func TestError_DistinctDomainErrorsDoNotMatch(t *testing.T) {
	a := New(KindInvalidState, "already reviewed")
	b := New(KindInvalidState, "employee inactive")

	assert.False(t, errors.Is(a, b))
	assert.True(t, errors.Is(a, ErrInvalidState))
	assert.True(t, errors.Is(b, ErrInvalidState))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("tx: %w", New(KindPersistenceConflict, "serialization failure")))
	assert.True(t, ok)
	assert.Equal(t, KindPersistenceConflict, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
