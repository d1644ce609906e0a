package user

import (
	"errors"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
)

var (
	ErrForbidden          = apperror.New(apperror.KindUnauthorized, "insufficient permissions")
	ErrTwoFactorRequired  = apperror.New(apperror.KindUnauthorized, "two-factor verification required")
	ErrInvalidPrincipal   = apperror.New(apperror.KindUnauthorized, "invalid or missing principal")
	ErrEmployeeIDRequired = apperror.New(apperror.KindUnauthorized, "employee id missing from token")
	ErrUnknownRole        = errors.New("unknown role")
)
