package dashboard

import (
	"context"
	"errors"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/dashboard"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	leaves      dashboard.LeaveCounter
	corrections dashboard.CorrectionCounter
}

func NewDashboardService(leaves dashboard.LeaveCounter, corrections dashboard.CorrectionCounter) dashboard.DashboardService {
	return &DashboardServiceImpl{
		leaves:      leaves,
		corrections: corrections,
	}
}

// GetPendingCounts fetches every counter in its own goroutine. A counter the
// caller is not allowed to see is left out; the call fails only when none is
// visible.
func (s *DashboardServiceImpl) GetPendingCounts(ctx context.Context, principal user.Principal) (*dashboard.PendingCountsResponse, error) {
	var resp dashboard.PendingCountsResponse

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Pending leave requests
	g.Go(func() error {
		count, err := s.leaves.PendingCount(gCtx, principal)
		if err != nil {
			return skipForbidden(err)
		}
		resp.LeaveRequests = &count
		return nil
	})

	// 2. Pending attendance corrections
	g.Go(func() error {
		count, err := s.corrections.PendingCount(gCtx, principal)
		if err != nil {
			return skipForbidden(err)
		}
		resp.AttendanceCorrections = &count
		return nil
	})

	// 3. Employees on leave today
	g.Go(func() error {
		list, err := s.leaves.OnLeaveToday(gCtx, principal)
		if err != nil {
			return skipForbidden(err)
		}
		n := len(list)
		resp.OnLeaveToday = &n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if resp.LeaveRequests == nil && resp.AttendanceCorrections == nil {
		return nil, user.ErrForbidden
	}
	return &resp, nil
}

func skipForbidden(err error) error {
	if errors.Is(err, user.ErrForbidden) {
		return nil
	}
	return err
}
