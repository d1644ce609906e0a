package attendance

import (
	"fmt"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
)

func Statuses() []string {
	return []string{
		string(StatusPresent),
		string(StatusAbsent),
		string(StatusLate),
		string(StatusHalfDay),
		string(StatusOnLeave),
	}
}

// Attendance is one ledger row per (employee, date).
type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	TimeIn      *ClockTime
	TimeOut     *ClockTime
	HoursWorked decimal.Decimal
	Status      Status
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecomputeHours refreshes HoursWorked when both clock times are set.
func (a *Attendance) RecomputeHours() {
	if a.TimeIn == nil || a.TimeOut == nil {
		return
	}
	a.HoursWorked = HoursBetween(*a.TimeIn, *a.TimeOut)
}

type CorrectionStatus string

const (
	CorrectionStatusPending  CorrectionStatus = "pending"
	CorrectionStatusApproved CorrectionStatus = "approved"
	CorrectionStatusRejected CorrectionStatus = "rejected"
)

func CorrectionStatuses() []string {
	return []string{
		string(CorrectionStatusPending),
		string(CorrectionStatusApproved),
		string(CorrectionStatusRejected),
	}
}

// Correction is an employee's request to change one day of their attendance.
type Correction struct {
	ID         string
	EmployeeID string
	Date       time.Time

	// Snapshot source at submission, and after approval the row that was written.
	AttendanceID *string

	CurrentTimeIn  *ClockTime
	CurrentTimeOut *ClockTime
	CurrentStatus  *Status

	RequestedTimeIn  *ClockTime
	RequestedTimeOut *ClockTime
	RequestedStatus  *Status

	Reason string
	Status CorrectionStatus

	ReviewedBy    *string
	ReviewedAt    *time.Time
	ReviewerNotes string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
}

func (c Correction) IsPending() bool {
	return c.Status == CorrectionStatusPending
}

// Snapshot copies the current values of att into the correction.
func (c *Correction) Snapshot(att *Attendance) {
	if att == nil {
		return
	}
	id := att.ID
	c.AttendanceID = &id
	c.CurrentTimeIn = att.TimeIn
	c.CurrentTimeOut = att.TimeOut
	status := att.Status
	c.CurrentStatus = &status
}

// ApplyTo writes the requested fields onto att. Absent fields leave att as is.
func (c Correction) ApplyTo(att *Attendance) {
	if c.RequestedTimeIn != nil {
		v := *c.RequestedTimeIn
		att.TimeIn = &v
	}
	if c.RequestedTimeOut != nil {
		v := *c.RequestedTimeOut
		att.TimeOut = &v
	}
	if c.RequestedStatus != nil {
		att.Status = *c.RequestedStatus
	}
	att.RecomputeHours()
}

// Review carries the reviewer metadata written on a status transition.
type Review struct {
	ReviewerID string
	ReviewedAt time.Time
	Notes      string
}

// ClockTime is a time of day in seconds since midnight.
type ClockTime int

const secondsPerDay = 24 * 60 * 60

// ParseClockTime accepts HH:MM or HH:MM:SS in 24h notation.
func ParseClockTime(s string) (ClockTime, error) {
	if !validator.IsValidClock(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
}

func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime(hour*3600 + minute*60 + second)
}

func (c ClockTime) Hour() int   { return int(c) / 3600 }
func (c ClockTime) Minute() int { return int(c) % 3600 / 60 }
func (c ClockTime) Second() int { return int(c) % 60 }

func (c ClockTime) String() string {
	if c.Second() == 0 {
		return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
	}
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// Duration returns the offset from midnight.
func (c ClockTime) Duration() time.Duration {
	return time.Duration(c) * time.Second
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	v, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// HoursBetween is the wall-clock span from in to out in hours, rounded to two
// decimals. An out earlier than in is read as the next day.
func HoursBetween(in, out ClockTime) decimal.Decimal {
	diff := int64(out) - int64(in)
	if diff < 0 {
		diff += secondsPerDay
	}
	return decimal.NewFromInt(diff).Div(decimal.NewFromInt(3600)).Round(2)
}

// DateOf truncates t to a UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
