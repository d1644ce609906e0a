package attendance

import (
	"context"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
)

// AttendanceService covers the correction workflow and the employee's ledger view.
type AttendanceService interface {
	SubmitCorrection(ctx context.Context, principal user.Principal, req SubmitCorrectionRequest) (CorrectionResponse, error)
	ApproveCorrection(ctx context.Context, principal user.Principal, correctionID string, req ReviewCorrectionRequest) (CorrectionResponse, error)
	RejectCorrection(ctx context.Context, principal user.Principal, correctionID string, req ReviewCorrectionRequest) (CorrectionResponse, error)

	GetCorrection(ctx context.Context, principal user.Principal, correctionID string) (CorrectionResponse, error)
	ListMyCorrections(ctx context.Context, principal user.Principal, filter CorrectionFilter) (ListCorrectionResponse, error)
	ListCorrectionsForReview(ctx context.Context, principal user.Principal, filter CorrectionFilter) (ListCorrectionResponse, error)
	PendingCount(ctx context.Context, principal user.Principal) (int64, error)

	// ListMyAttendance retrieves attendance records for the authenticated employee
	ListMyAttendance(ctx context.Context, principal user.Principal, filter MyAttendanceFilter) (ListAttendanceResponse, error)
}
