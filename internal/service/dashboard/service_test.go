package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	policy  *user.Policy
	action  user.Action
	count   int64
	onLeave []leave.OnLeaveTodayResponse
	err     error
}

func (s stubCounter) PendingCount(_ context.Context, p user.Principal) (int64, error) {
	if err := s.policy.Require(p, s.action); err != nil {
		return 0, err
	}
	return s.count, s.err
}

func (s stubCounter) OnLeaveToday(_ context.Context, p user.Principal) ([]leave.OnLeaveTodayResponse, error) {
	if err := s.policy.Require(p, s.action); err != nil {
		return nil, err
	}
	return s.onLeave, s.err
}

func newService(leaveErr error) *DashboardServiceImpl {
	policy := user.NewPolicy(user.DefaultPermissions())
	leaves := stubCounter{
		policy:  policy,
		action:  user.ActionLeaveViewAll,
		count:   3,
		onLeave: []leave.OnLeaveTodayResponse{{EmployeeID: "e1"}, {EmployeeID: "e2"}},
		err:     leaveErr,
	}
	corrections := stubCounter{policy: policy, action: user.ActionAttendanceViewAll, count: 2}
	return NewDashboardService(leaves, corrections).(*DashboardServiceImpl)
}

func TestGetPendingCounts_HRSeesEverything(t *testing.T) {
	resp, err := newService(nil).GetPendingCounts(context.Background(), user.Principal{EmployeeID: "hr", Role: user.RoleHR})
	require.NoError(t, err)

	require.NotNil(t, resp.LeaveRequests)
	require.NotNil(t, resp.AttendanceCorrections)
	require.NotNil(t, resp.OnLeaveToday)
	assert.Equal(t, int64(3), *resp.LeaveRequests)
	assert.Equal(t, int64(2), *resp.AttendanceCorrections)
	assert.Equal(t, 2, *resp.OnLeaveToday)
	assert.Equal(t, int64(5), resp.Total())
}

func TestGetPendingCounts_ManagerSeesLeaveOnly(t *testing.T) {
	resp, err := newService(nil).GetPendingCounts(context.Background(), user.Principal{EmployeeID: "m", Role: user.RoleManager})
	require.NoError(t, err)

	require.NotNil(t, resp.LeaveRequests)
	assert.Nil(t, resp.AttendanceCorrections)
	assert.Equal(t, int64(3), resp.Total())
}

func TestGetPendingCounts_EmployeeForbidden(t *testing.T) {
	_, err := newService(nil).GetPendingCounts(context.Background(), user.Principal{EmployeeID: "e", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestGetPendingCounts_PropagatesStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := newService(boom).GetPendingCounts(context.Background(), user.Principal{EmployeeID: "hr", Role: user.RoleHR})
	assert.ErrorIs(t, err, boom)
}
