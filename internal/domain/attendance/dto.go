package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const maxReasonLength = 1000

// ========================================
// CORRECTION DTOs
// ========================================

type SubmitCorrectionRequest struct {
	Date    string  `json:"date"`               // YYYY-MM-DD
	TimeIn  *string `json:"time_in,omitempty"`  // HH:MM[:SS]
	TimeOut *string `json:"time_out,omitempty"` // HH:MM[:SS]
	Status  *string `json:"status,omitempty"`
	Reason  string  `json:"reason"`
}

func (r *SubmitCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if r.TimeIn != nil && !validator.IsValidClock(*r.TimeIn) {
		errs.Add("time_in", "time_in must be in HH:MM or HH:MM:SS format")
	}
	if r.TimeOut != nil && !validator.IsValidClock(*r.TimeOut) {
		errs.Add("time_out", "time_out must be in HH:MM or HH:MM:SS format")
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses()) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses(), ", "))
	}
	if r.TimeIn == nil && r.TimeOut == nil && r.Status == nil {
		errs.Add("time_in", ErrNothingToCorrect.Error())
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > maxReasonLength {
		errs.Add("reason", fmt.Sprintf("reason must not exceed %d characters", maxReasonLength))
	}

	return errs.Err()
}

// ToCorrection converts a validated request into a pending correction.
func (r *SubmitCorrectionRequest) ToCorrection(employeeID string) (Correction, error) {
	date, _ := validator.IsValidDate(r.Date)
	c := Correction{
		EmployeeID: employeeID,
		Date:       date,
		Reason:     strings.TrimSpace(r.Reason),
		Status:     CorrectionStatusPending,
	}
	if r.TimeIn != nil {
		t, err := ParseClockTime(*r.TimeIn)
		if err != nil {
			return Correction{}, err
		}
		c.RequestedTimeIn = &t
	}
	if r.TimeOut != nil {
		t, err := ParseClockTime(*r.TimeOut)
		if err != nil {
			return Correction{}, err
		}
		c.RequestedTimeOut = &t
	}
	if r.Status != nil {
		s := Status(*r.Status)
		c.RequestedStatus = &s
	}
	return c, nil
}

type ReviewCorrectionRequest struct {
	Notes string `json:"notes"`
}

func (r *ReviewCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.Notes) > maxReasonLength {
		errs.Add("notes", fmt.Sprintf("notes must not exceed %d characters", maxReasonLength))
	}
	return errs.Err()
}

type CorrectionFilter struct {
	// Set by the service for self-service listings.
	EmployeeID *string `json:"-"`

	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc by submission time
}

func (f *CorrectionFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePaging(&errs, &f.Page, &f.Limit)

	if f.Status != nil && !validator.IsInSlice(*f.Status, CorrectionStatuses()) {
		errs.Add("status", "status must be one of: "+strings.Join(CorrectionStatuses(), ", "))
	}
	validateDate(&errs, "start_date", f.StartDate)
	validateDate(&errs, "end_date", f.EndDate)

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "desc"
	}

	return errs.Err()
}

// Matches applies the filter to a single correction. Used by in-memory storage.
func (f CorrectionFilter) Matches(c Correction) bool {
	if f.EmployeeID != nil && c.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Status != nil && string(c.Status) != *f.Status {
		return false
	}
	return inDateRange(c.Date, f.StartDate, f.EndDate)
}

func (f CorrectionFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ========================================
// ATTENDANCE DTOs
// ========================================

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePaging(&errs, &f.Page, &f.Limit)

	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses()) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses(), ", "))
	}
	validateDate(&errs, "start_date", f.StartDate)
	validateDate(&errs, "end_date", f.EndDate)

	return errs.Err()
}

// Matches applies the filter to a single record. Used by in-memory storage.
func (f MyAttendanceFilter) Matches(a Attendance) bool {
	if f.Status != nil && string(a.Status) != *f.Status {
		return false
	}
	return inDateRange(a.Date, f.StartDate, f.EndDate)
}

func (f MyAttendanceFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type AttendanceResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Date        string          `json:"date"`
	TimeIn      *ClockTime      `json:"time_in,omitempty"`
	TimeOut     *ClockTime      `json:"time_out,omitempty"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		Date:        a.Date.Format(validator.DateLayout),
		TimeIn:      a.TimeIn,
		TimeOut:     a.TimeOut,
		HoursWorked: a.HoursWorked.Round(2),
		Status:      string(a.Status),
		Notes:       a.Notes,
		UpdatedAt:   a.UpdatedAt,
	}
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func NewListAttendanceResponse(records []Attendance, total int64, filter MyAttendanceFilter) ListAttendanceResponse {
	items := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		items = append(items, NewAttendanceResponse(a))
	}
	return ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages(total, filter.Limit),
		Attendances: items,
	}
}

type CorrectionResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	AttendanceID *string `json:"attendance_id,omitempty"`

	CurrentTimeIn  *ClockTime `json:"current_time_in,omitempty"`
	CurrentTimeOut *ClockTime `json:"current_time_out,omitempty"`
	CurrentStatus  *Status    `json:"current_status,omitempty"`

	RequestedTimeIn  *ClockTime `json:"requested_time_in,omitempty"`
	RequestedTimeOut *ClockTime `json:"requested_time_out,omitempty"`
	RequestedStatus  *Status    `json:"requested_status,omitempty"`

	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	ReviewedBy    *string    `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewerNotes string     `json:"reviewer_notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewCorrectionResponse(c Correction) CorrectionResponse {
	return CorrectionResponse{
		ID:               c.ID,
		EmployeeID:       c.EmployeeID,
		EmployeeName:     c.EmployeeName,
		Date:             c.Date.Format(validator.DateLayout),
		AttendanceID:     c.AttendanceID,
		CurrentTimeIn:    c.CurrentTimeIn,
		CurrentTimeOut:   c.CurrentTimeOut,
		CurrentStatus:    c.CurrentStatus,
		RequestedTimeIn:  c.RequestedTimeIn,
		RequestedTimeOut: c.RequestedTimeOut,
		RequestedStatus:  c.RequestedStatus,
		Reason:           c.Reason,
		Status:           string(c.Status),
		ReviewedBy:       c.ReviewedBy,
		ReviewedAt:       c.ReviewedAt,
		ReviewerNotes:    c.ReviewerNotes,
		CreatedAt:        c.CreatedAt,
	}
}

type ListCorrectionResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Corrections []CorrectionResponse `json:"corrections"`
}

func NewListCorrectionResponse(corrections []Correction, total int64, filter CorrectionFilter) ListCorrectionResponse {
	items := make([]CorrectionResponse, 0, len(corrections))
	for _, c := range corrections {
		items = append(items, NewCorrectionResponse(c))
	}
	return ListCorrectionResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages(total, filter.Limit),
		Corrections: items,
	}
}

func validatePaging(errs *validator.ValidationErrors, page, limit *int) {
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
}

func validateDate(errs *validator.ValidationErrors, field string, value *string) {
	if value == nil {
		return
	}
	if _, ok := validator.IsValidDate(*value); !ok {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
	}
}

func inDateRange(date time.Time, from, to *string) bool {
	if from != nil {
		if d, ok := validator.IsValidDate(*from); ok && date.Before(d) {
			return false
		}
	}
	if to != nil {
		if d, ok := validator.IsValidDate(*to); ok && date.After(d) {
			return false
		}
	}
	return true
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
