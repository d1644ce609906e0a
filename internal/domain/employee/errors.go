package employee

import "github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound    = apperror.New(apperror.KindNotFound, "employee not found")
	ErrEmployeeCodeExists  = apperror.New(apperror.KindPersistenceConflict, "employee code already exists")
	ErrEmailExists         = apperror.New(apperror.KindPersistenceConflict, "email already registered")
	ErrEmployeeNotActive   = apperror.New(apperror.KindInvalidState, "employee is not active")
	ErrInsufficientBalance = apperror.New(apperror.KindInsufficientBalance, "insufficient leave balance")
	ErrUnknownBalanceKind  = apperror.New(apperror.KindInvalidInput, "unknown balance kind")
	ErrInvalidStatus       = apperror.New(apperror.KindInvalidInput, "invalid employment status")
)
