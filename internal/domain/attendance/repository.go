package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the attendance ledger, unique on (employee_id, date).
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil when the employee has no row for date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetOrCreateForUpdate returns the row for (employee, date), inserting an
	// empty one first if needed, and locks it for the current transaction.
	GetOrCreateForUpdate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	Update(ctx context.Context, attendance Attendance) error

	// ListByEmployee retrieves attendance records for a specific employee
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)
}

type CorrectionRepository interface {
	Create(ctx context.Context, correction Correction) (Correction, error)
	GetByID(ctx context.Context, id string) (Correction, error)
	List(ctx context.Context, filter CorrectionFilter) ([]Correction, int64, error)

	// TransitionStatus succeeds only while the stored status is pending.
	TransitionStatus(ctx context.Context, id string, to CorrectionStatus, review Review) (Correction, error)
	LinkAttendance(ctx context.Context, id, attendanceID string) error
	CountByStatus(ctx context.Context, status CorrectionStatus) (int64, error)
}
