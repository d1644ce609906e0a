package leave

import "github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound         = apperror.New(apperror.KindNotFound, "leave request not found")
	ErrLeaveRequestAlreadyProcessed = apperror.New(apperror.KindInvalidState, "leave request already processed")
	ErrInsufficientBalance          = apperror.New(apperror.KindInsufficientBalance, "insufficient leave balance")
	ErrEmployeeNotActive            = apperror.New(apperror.KindInvalidState, "only active employees can request leave")
	ErrNoWorkingDays                = apperror.New(apperror.KindInvalidInput, "date range contains no working days")
	ErrNotRequestOwner              = apperror.New(apperror.KindUnauthorized, "leave request belongs to another employee")
	ErrSelfReview                   = apperror.New(apperror.KindUnauthorized, "cannot review your own leave request")
)
