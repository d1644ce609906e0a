package attendance

import "github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAttendanceNotFound         = apperror.New(apperror.KindNotFound, "attendance record not found")
	ErrCorrectionNotFound         = apperror.New(apperror.KindNotFound, "attendance correction not found")
	ErrCorrectionAlreadyProcessed = apperror.New(apperror.KindInvalidState, "attendance correction already processed")
	ErrNotCorrectionOwner         = apperror.New(apperror.KindUnauthorized, "attendance correction belongs to another employee")
	ErrSelfReview                 = apperror.New(apperror.KindUnauthorized, "cannot review your own attendance correction")
	ErrNothingToCorrect           = apperror.New(apperror.KindInvalidInput, "at least one of time_in, time_out or status is required")
	ErrInvalidClockTime           = apperror.New(apperror.KindInvalidInput, "time must be HH:MM or HH:MM:SS")
	ErrAttendanceConflict         = apperror.New(apperror.KindPersistenceConflict, "attendance record was modified concurrently, retry")
)
