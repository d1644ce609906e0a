package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// TransitionStatus moves a request out of pending. It only succeeds while
	// the stored status is still pending; otherwise it returns
	// ErrLeaveRequestAlreadyProcessed (or ErrLeaveRequestNotFound).
	TransitionStatus(ctx context.Context, id string, to LeaveRequestStatus, review Review) (LeaveRequest, error)

	// ListApprovedCovering returns approved requests whose range includes day.
	ListApprovedCovering(ctx context.Context, day time.Time) ([]LeaveRequest, error)
	CountByStatus(ctx context.Context, status LeaveRequestStatus) (int64, error)
}
