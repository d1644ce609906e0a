package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/metrics"
	"github.com/ethos-hrms/hrms-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) Events() []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Event(nil), n.events...)
}

type fixture struct {
	svc         *AttendanceServiceImpl
	attendances attendance.AttendanceRepository
	notifier    *recordingNotifier
	employee    user.Principal
	hr          user.Principal
	manager     user.Principal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	attendances := memory.NewAttendanceRepository(store)
	corrections := memory.NewCorrectionRepository(store)
	notifier := &recordingNotifier{}

	emp, err := employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP-010",
		FirstName:    "Ioana",
		LastName:     "Dinu",
		Email:        "ioana@example.com",
		Balances:     employee.DefaultBalances(),
	})
	require.NoError(t, err)

	svc := NewAttendanceService(store, user.NewPolicy(user.DefaultPermissions()), attendances, corrections, employees, notifier, metrics.New(nil), "http://hrms.test")

	return fixture{
		svc:         svc,
		attendances: attendances,
		notifier:    notifier,
		employee:    user.Principal{EmployeeID: emp.ID, Role: user.RoleEmployee},
		hr:          user.Principal{EmployeeID: "hr-1", Role: user.RoleHR},
		manager:     user.Principal{EmployeeID: "mgr-1", Role: user.RoleManager},
	}
}

func clock(t *testing.T, s string) *attendance.ClockTime {
	t.Helper()
	c, err := attendance.ParseClockTime(s)
	require.NoError(t, err)
	return &c
}

func strPtr(s string) *string { return &s }

// seed writes a ledger row the way the clock-in flow would.
func (f fixture) seed(t *testing.T, date string, in, out string, status attendance.Status) attendance.Attendance {
	t.Helper()
	ctx := context.Background()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	att, err := f.attendances.GetOrCreateForUpdate(ctx, f.employee.EmployeeID, day)
	require.NoError(t, err)
	att.TimeIn = clock(t, in)
	att.TimeOut = clock(t, out)
	att.Status = status
	att.RecomputeHours()
	require.NoError(t, f.attendances.Update(ctx, att))
	return att
}

func (f fixture) ledger(t *testing.T, date string) *attendance.Attendance {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	att, err := f.attendances.GetByEmployeeAndDate(context.Background(), f.employee.EmployeeID, day)
	require.NoError(t, err)
	return att
}

func TestAttendanceService_Submit_SnapshotsLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := f.seed(t, "2026-01-06", "09:00", "17:00", attendance.StatusLate)

	resp, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date:    "2026-01-06",
		TimeIn:  strPtr("08:30"),
		Reason:  "badge reader was down",
		Status:  strPtr("present"),
		TimeOut: nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.AttendanceID)
	assert.Equal(t, existing.ID, *resp.AttendanceID)
	assert.Equal(t, "09:00", resp.CurrentTimeIn.String())
	assert.Equal(t, attendance.StatusLate, *resp.CurrentStatus)
	assert.Equal(t, "08:30", resp.RequestedTimeIn.String())
	assert.Nil(t, resp.RequestedTimeOut)
}

func TestAttendanceService_Submit_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]attendance.SubmitCorrectionRequest{
		"no fields":    {Date: "2026-01-06", Reason: "x"},
		"bad date":     {Date: "06/01/2026", TimeIn: strPtr("08:00"), Reason: "x"},
		"bad time":     {Date: "2026-01-06", TimeIn: strPtr("25:00"), Reason: "x"},
		"bad status":   {Date: "2026-01-06", Status: strPtr("sleeping"), Reason: "x"},
		"empty reason": {Date: "2026-01-06", TimeIn: strPtr("08:00"), Reason: ""},
	}
	for name, req := range cases {
		_, err := f.svc.SubmitCorrection(ctx, f.employee, req)
		assert.Truef(t, errors.Is(err, apperror.ErrInvalidInput), "%s: got %v", name, err)
	}
}

func TestAttendanceService_Approve_PartialUpdateKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "2026-01-06", "09:00", "17:00", attendance.StatusLate)

	submitted, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date:   "2026-01-06",
		TimeIn: strPtr("08:00"),
		Reason: "forgot to clock in",
	})
	require.NoError(t, err)

	approved, err := f.svc.ApproveCorrection(ctx, f.hr, submitted.ID, attendance.ReviewCorrectionRequest{Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.AttendanceID)

	att := f.ledger(t, "2026-01-06")
	require.NotNil(t, att)
	assert.Equal(t, *approved.AttendanceID, att.ID)
	assert.Equal(t, "08:00", att.TimeIn.String())
	assert.Equal(t, "17:00", att.TimeOut.String())
	assert.Equal(t, attendance.StatusLate, att.Status)
	assert.Equal(t, "9", att.HoursWorked.String())

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notification.TypeCorrectionApproved, events[0].Type)
	assert.Equal(t, "ioana@example.com", events[0].RecipientEmail)
}

func TestAttendanceService_Approve_CreatesMissingRowWithoutHours(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submitted, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date:   "2026-01-07",
		TimeIn: strPtr("09:15"),
		Reason: "worked from client site",
	})
	require.NoError(t, err)
	assert.Nil(t, submitted.AttendanceID)

	_, err = f.svc.ApproveCorrection(ctx, f.hr, submitted.ID, attendance.ReviewCorrectionRequest{})
	require.NoError(t, err)

	att := f.ledger(t, "2026-01-07")
	require.NotNil(t, att)
	assert.Equal(t, "09:15", att.TimeIn.String())
	assert.Nil(t, att.TimeOut)
	assert.True(t, att.HoursWorked.IsZero(), "hours stay unset until both times exist")
}

func TestAttendanceService_Approve_OvernightShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submitted, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date:    "2026-01-08",
		TimeIn:  strPtr("22:00"),
		TimeOut: strPtr("06:00"),
		Reason:  "night shift",
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveCorrection(ctx, f.hr, submitted.ID, attendance.ReviewCorrectionRequest{})
	require.NoError(t, err)

	att := f.ledger(t, "2026-01-08")
	require.NotNil(t, att)
	assert.Equal(t, "8.00", att.HoursWorked.StringFixed(2))
}

func TestAttendanceService_Approve_RequiresHR(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submitted, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date: "2026-01-06", Status: strPtr("absent"), Reason: "sick at home",
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveCorrection(ctx, f.manager, submitted.ID, attendance.ReviewCorrectionRequest{})
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	assert.Nil(t, f.ledger(t, "2026-01-06"))
}

func TestAttendanceService_Reject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "2026-01-06", "09:00", "17:00", attendance.StatusPresent)

	submitted, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date: "2026-01-06", TimeOut: strPtr("19:00"), Reason: "stayed late",
	})
	require.NoError(t, err)

	rejected, err := f.svc.RejectCorrection(ctx, f.hr, submitted.ID, attendance.ReviewCorrectionRequest{Notes: "no overtime approval"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.Equal(t, "17:00", f.ledger(t, "2026-01-06").TimeOut.String())

	_, err = f.svc.RejectCorrection(ctx, f.hr, submitted.ID, attendance.ReviewCorrectionRequest{})
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))
	_, err = f.svc.ApproveCorrection(ctx, f.hr, submitted.ID, attendance.ReviewCorrectionRequest{})
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notification.TypeCorrectionRejected, events[0].Type)
}

func TestAttendanceService_ConcurrentApprovals_SameDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date: "2026-01-09", TimeIn: strPtr("08:00"), Reason: "clock in",
	})
	require.NoError(t, err)
	out, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date: "2026-01-09", TimeOut: strPtr("16:30"), Reason: "clock out",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range []string{in.ID, out.ID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.ApproveCorrection(ctx, f.hr, id, attendance.ReviewCorrectionRequest{})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	list, err := f.svc.ListMyAttendance(ctx, f.employee, attendance.MyAttendanceFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), list.TotalCount, "one ledger row per employee and date")
	assert.Equal(t, "8.5", list.Attendances[0].HoursWorked.String())
}

func TestAttendanceService_ReadSide(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submitted, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date: "2026-01-06", Status: strPtr("half_day"), Reason: "doctor appointment",
	})
	require.NoError(t, err)

	count, err := f.svc.PendingCount(ctx, f.hr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	_, err = f.svc.PendingCount(ctx, f.manager)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	mine, err := f.svc.ListMyCorrections(ctx, f.employee, attendance.CorrectionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)

	queue, err := f.svc.ListCorrectionsForReview(ctx, f.hr, attendance.CorrectionFilter{Status: strPtr("pending")})
	require.NoError(t, err)
	require.Len(t, queue.Corrections, 1)
	require.NotNil(t, queue.Corrections[0].EmployeeName)
	assert.Equal(t, "Ioana Dinu", *queue.Corrections[0].EmployeeName)

	_, err = f.svc.GetCorrection(ctx, f.employee, submitted.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetCorrection(ctx, f.manager, submitted.ID)
	assert.ErrorIs(t, err, attendance.ErrNotCorrectionOwner)
	_, err = f.svc.GetCorrection(ctx, f.hr, "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestAttendanceService_ReviewOwnCorrectionRefused(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submitted, err := f.svc.SubmitCorrection(ctx, f.employee, attendance.SubmitCorrectionRequest{
		Date: "2026-01-06", TimeIn: strPtr("08:30"), Reason: "forgot to clock in",
	})
	require.NoError(t, err)

	self := user.Principal{EmployeeID: f.employee.EmployeeID, Role: user.RoleHR}
	_, err = f.svc.ApproveCorrection(ctx, self, submitted.ID, attendance.ReviewCorrectionRequest{})
	assert.ErrorIs(t, err, attendance.ErrSelfReview)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	_, err = f.svc.RejectCorrection(ctx, self, submitted.ID, attendance.ReviewCorrectionRequest{})
	assert.ErrorIs(t, err, attendance.ErrSelfReview)

	assert.Nil(t, f.ledger(t, "2026-01-06"))
	assert.Empty(t, f.notifier.Events())

	approved, err := f.svc.ApproveCorrection(ctx, f.hr, submitted.ID, attendance.ReviewCorrectionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
}
