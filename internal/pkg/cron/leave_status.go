package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
)

const JobSyncEmployeeLeaveStatus = "sync_employee_leave_status"

// LeaveStatusJobs keeps the employment status in step with approved leave.
type LeaveStatusJobs struct {
	leaveRequestRepo leave.LeaveRequestRepository
	employeeRepo     employee.EmployeeRepository
	now              func() time.Time
}

func NewLeaveStatusJobs(
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
) *LeaveStatusJobs {
	return &LeaveStatusJobs{
		leaveRequestRepo: leaveRequestRepo,
		employeeRepo:     employeeRepo,
		now:              time.Now,
	}
}

func (j *LeaveStatusJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(JobSyncEmployeeLeaveStatus, interval, j.SyncEmployeeLeaveStatus)
}

// SyncEmployeeLeaveStatus flips active employees covered today by an approved
// leave to on_leave, and on_leave employees no longer covered back to active.
// Terminated employees are never touched.
func (j *LeaveStatusJobs) SyncEmployeeLeaveStatus(ctx context.Context) error {
	today := leave.DateOf(j.now())

	covering, err := j.leaveRequestRepo.ListApprovedCovering(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list approved leave covering %s: %w", today.Format("2006-01-02"), err)
	}
	onLeave := make(map[string]struct{}, len(covering))
	for _, r := range covering {
		onLeave[r.EmployeeID] = struct{}{}
	}

	employees, err := j.employeeRepo.ListByStatus(ctx, employee.StatusActive, employee.StatusOnLeave)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	var (
		toLeave, toActive int
		errs              []error
	)
	for _, emp := range employees {
		_, covered := onLeave[emp.ID]

		var next employee.Status
		switch {
		case covered && emp.Status == employee.StatusActive:
			next = employee.StatusOnLeave
		case !covered && emp.Status == employee.StatusOnLeave:
			next = employee.StatusActive
		default:
			continue
		}

		if err := j.employeeRepo.UpdateStatus(ctx, emp.ID, next); err != nil {
			slog.Error("Cron: failed to update employee status", "employee_id", emp.ID, "status", next, "error", err)
			errs = append(errs, err)
			continue
		}
		if next == employee.StatusOnLeave {
			toLeave++
		} else {
			toActive++
		}
	}

	if toLeave > 0 || toActive > 0 {
		slog.Info("Cron: employee leave status synced", "on_leave", toLeave, "back_to_active", toActive)
	}
	return errors.Join(errs...)
}
