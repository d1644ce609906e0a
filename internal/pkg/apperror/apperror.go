package apperror

import "errors"

// Kind classifies a failure so transports can map it without knowing every domain error.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindUnauthorized        Kind = "unauthorized"
	KindPersistenceConflict Kind = "persistence_conflict"
)

// Kind sentinels. errors.Is(err, ErrNotFound) holds for every domain error of that kind.
var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance, Message: "insufficient balance"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidState        = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrPersistenceConflict = &Error{Kind: KindPersistenceConflict, Message: "persistence conflict"}
)

type Error struct {
	Kind    Kind
	Message string
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches the identical error or, for kind sentinels, any error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return isKindSentinel(t) && e.Kind == t.Kind
}

func isKindSentinel(e *Error) bool {
	switch e {
	case ErrInvalidInput, ErrInsufficientBalance, ErrNotFound,
		ErrInvalidState, ErrUnauthorized, ErrPersistenceConflict:
		return true
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
