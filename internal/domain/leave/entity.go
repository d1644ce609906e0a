package leave

import (
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypeAnnual   LeaveType = "annual"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeVacation LeaveType = "vacation"
	LeaveTypeUnpaid   LeaveType = "unpaid"
	LeaveTypeOther    LeaveType = "other"
)

func LeaveTypes() []string {
	return []string{
		string(LeaveTypeAnnual),
		string(LeaveTypeSick),
		string(LeaveTypeVacation),
		string(LeaveTypeUnpaid),
		string(LeaveTypeOther),
	}
}

// BalanceKind returns the balance drawn down by this leave type.
// unpaid and other are not balance-tracked.
func (t LeaveType) BalanceKind() (employee.BalanceKind, bool) {
	switch t {
	case LeaveTypeAnnual:
		return employee.BalanceAnnual, true
	case LeaveTypeVacation:
		return employee.BalanceVacation, true
	case LeaveTypeSick:
		return employee.BalanceSick, true
	}
	return "", false
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

func LeaveRequestStatuses() []string {
	return []string{
		string(LeaveRequestStatusPending),
		string(LeaveRequestStatusApproved),
		string(LeaveRequestStatusRejected),
		string(LeaveRequestStatusCancelled),
	}
}

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	StartDate time.Time
	EndDate   time.Time // inclusive

	// Working days in [StartDate, EndDate], fixed at submission.
	DaysRequested decimal.Decimal

	Reason string
	Status LeaveRequestStatus

	ReviewedBy   *string
	ReviewedAt   *time.Time
	ManagerNotes string

	SubmittedAt time.Time
	UpdatedAt   time.Time

	// Relationships (for responses)
	EmployeeName *string
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

// Covers reports whether day falls inside the request's inclusive range.
func (r LeaveRequest) Covers(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(r.StartDate)) && !d.After(DateOf(r.EndDate))
}

// Review carries the reviewer metadata written on a status transition.
type Review struct {
	ReviewerID string
	ReviewedAt time.Time
	Notes      string
}

// DateOf truncates t to a UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WorkingDays counts Monday to Friday dates in the inclusive range.
func WorkingDays(start, end time.Time) int {
	start, end = DateOf(start), DateOf(end)
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days++
	}
	return days
}
