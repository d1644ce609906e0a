package leave

import (
	"context"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
)

type LeaveService interface {
	// Workflow
	Submit(ctx context.Context, principal user.Principal, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, principal user.Principal, requestID string, req ReviewLeaveRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, principal user.Principal, requestID string, req ReviewLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, principal user.Principal, requestID string) (LeaveRequestResponse, error)

	// Read side
	Get(ctx context.Context, principal user.Principal, requestID string) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, principal user.Principal, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListForReview(ctx context.Context, principal user.Principal, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	Balances(ctx context.Context, principal user.Principal) (employee.BalancesResponse, error)
	OnLeaveToday(ctx context.Context, principal user.Principal) ([]OnLeaveTodayResponse, error)
	PendingCount(ctx context.Context, principal user.Principal) (int64, error)
}
