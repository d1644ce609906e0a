package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, repo employee.EmployeeRepository, code string) employee.Employee {
	t.Helper()
	emp, err := repo.Create(context.Background(), employee.Employee{
		EmployeeCode: code,
		FirstName:    "Test",
		LastName:     code,
		Email:        code + "@example.com",
		Status:       employee.StatusActive,
		Balances:     employee.DefaultBalances(),
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepository_CreateAndDeduct(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	emp := createEmployee(t, repo, "PG-001")
	assert.True(t, emp.Balances.Annual.Equal(decimal.NewFromInt(15)))

	_, err := repo.Create(ctx, employee.Employee{EmployeeCode: "PG-001", FirstName: "Dup", Email: "dup@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	require.NoError(t, repo.DeductBalance(ctx, emp.ID, employee.BalanceAnnual, decimal.RequireFromString("14.5")))
	err = repo.DeductBalance(ctx, emp.ID, employee.BalanceAnnual, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, employee.ErrInsufficientBalance)

	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.Balances.Annual.Equal(decimal.RequireFromString("0.5")))

	err = repo.DeductBalance(ctx, "00000000-0000-0000-0000-000000000000", employee.BalanceSick, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestLeaveRequestRepository_ConcurrentTransition(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	requests := postgresql.NewLeaveRequestRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	owner := createEmployee(t, employees, "PG-010")
	reviewer := createEmployee(t, employees, "PG-011")

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created, err := requests.Create(ctx, leave.LeaveRequest{
		EmployeeID:    owner.ID,
		LeaveType:     leave.LeaveTypeAnnual,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 4),
		DaysRequested: decimal.NewFromInt(5),
		Reason:        "family trip",
		Status:        leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		processed int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.WithinTx(ctx, func(ctx context.Context) error {
				if _, err := requests.TransitionStatus(ctx, created.ID, leave.LeaveRequestStatusApproved, leave.Review{
					ReviewerID: reviewer.ID,
					ReviewedAt: time.Now().UTC(),
				}); err != nil {
					return err
				}
				return employees.DeductBalance(ctx, owner.ID, employee.BalanceAnnual, created.DaysRequested)
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
				processed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 3, processed)

	got, err := employees.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, got.Balances.Annual.Equal(decimal.NewFromInt(10)))

	covering, err := requests.ListApprovedCovering(ctx, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, covering, 1)
	assert.Equal(t, created.ID, covering[0].ID)

	pending, err := requests.CountByStatus(ctx, leave.LeaveRequestStatusPending)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestLeaveRequestRepository_RollbackOnFailedDeduction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	requests := postgresql.NewLeaveRequestRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	owner := createEmployee(t, employees, "PG-020")
	start := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	created, err := requests.Create(ctx, leave.LeaveRequest{
		EmployeeID:    owner.ID,
		LeaveType:     leave.LeaveTypeSick,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 18),
		DaysRequested: decimal.NewFromInt(15),
		Reason:        "surgery",
		Status:        leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := requests.TransitionStatus(ctx, created.ID, leave.LeaveRequestStatusApproved, leave.Review{
			ReviewerID: owner.ID,
			ReviewedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return employees.DeductBalance(ctx, owner.ID, employee.BalanceSick, created.DaysRequested)
	})
	assert.ErrorIs(t, err, employee.ErrInsufficientBalance)

	got, err := requests.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, got.Status)
	assert.Nil(t, got.ReviewedBy)
}

func TestAttendanceRepository_GetOrCreateForUpdate(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	emp := createEmployee(t, employees, "PG-030")
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	missing, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day)
	require.NoError(t, err)
	assert.Nil(t, missing)

	in := attendance.NewClockTime(9, 0, 0)
	out := attendance.NewClockTime(17, 30, 0)
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		row, err := repo.GetOrCreateForUpdate(ctx, emp.ID, day)
		if err != nil {
			return err
		}
		row.TimeIn = &in
		row.TimeOut = &out
		row.RecomputeHours()
		return repo.Update(ctx, row)
	})
	require.NoError(t, err)

	var first attendance.Attendance
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		first, err = repo.GetOrCreateForUpdate(ctx, emp.ID, day)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, first.TimeIn)
	assert.Equal(t, in, *first.TimeIn)
	assert.True(t, first.HoursWorked.Equal(decimal.RequireFromString("8.5")))

	stored, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID, stored.ID)
}

func TestNotificationRepository_BatchAndRead(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewNotificationRepository(setup.DB)

	emp := createEmployee(t, employees, "PG-040")
	batch := []*notification.Notification{
		{RecipientID: emp.ID, Type: notification.TypeLeaveApproved, Title: "Leave approved", Message: "ok", Data: map[string]interface{}{"days": 2}},
		{RecipientID: emp.ID, Type: notification.TypeCorrectionRejected, Title: "Correction rejected", Message: "no"},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	for _, n := range batch {
		assert.NotEmpty(t, n.ID)
	}

	count, err := repo.GetUnreadCount(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.MarkAsRead(ctx, []string{batch[0].ID}, emp.ID))
	unread, total, err := repo.GetByRecipient(ctx, emp.ID, 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, unread, 1)
	assert.Equal(t, batch[1].ID, unread[0].ID)

	require.NoError(t, repo.MarkAllAsRead(ctx, emp.ID))
	count, err = repo.GetUnreadCount(ctx, emp.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositories_MalformedIDIsNotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	requests := postgresql.NewLeaveRequestRepository(setup.DB)
	corrections := postgresql.NewCorrectionRepository(setup.DB)

	_, err := employees.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	err = employees.DeductBalance(ctx, "abc", employee.BalanceAnnual, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = requests.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	_, err = requests.TransitionStatus(ctx, "abc", leave.LeaveRequestStatusApproved, leave.Review{ReviewedAt: time.Now()})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = corrections.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, attendance.ErrCorrectionNotFound)
	_, err = corrections.TransitionStatus(ctx, "abc", attendance.CorrectionStatusApproved, attendance.Review{ReviewedAt: time.Now()})
	assert.ErrorIs(t, err, attendance.ErrCorrectionNotFound)
}
