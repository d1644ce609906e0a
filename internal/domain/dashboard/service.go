package dashboard

import (
	"context"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
)

// LeaveCounter is the slice of the leave workflow the dashboard reads.
type LeaveCounter interface {
	PendingCount(ctx context.Context, principal user.Principal) (int64, error)
	OnLeaveToday(ctx context.Context, principal user.Principal) ([]leave.OnLeaveTodayResponse, error)
}

// CorrectionCounter is the slice of the correction workflow the dashboard reads.
type CorrectionCounter interface {
	PendingCount(ctx context.Context, principal user.Principal) (int64, error)
}

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetPendingCounts returns the reviewer counters, fetched in parallel.
	GetPendingCounts(ctx context.Context, principal user.Principal) (*PendingCountsResponse, error)
}
