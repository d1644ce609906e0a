package leave

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	maxReasonLength = 1000
	// maxSpanDays bounds a single request's calendar range.
	maxSpanDays = 366
)

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	// Leave type
	if validator.IsEmpty(r.LeaveType) {
		errs.Add("leave_type", "leave_type is required")
	} else if !validator.IsInSlice(r.LeaveType, LeaveTypes()) {
		errs.Add("leave_type", "leave_type must be one of: "+strings.Join(LeaveTypes(), ", "))
	}

	// Dates
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK {
		if end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if end.After(start.AddDate(0, 0, maxSpanDays-1)) {
			errs.Add("end_date", fmt.Sprintf("leave must not span more than %d days", maxSpanDays))
		}
	}

	// Reason
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > maxReasonLength {
		errs.Add("reason", fmt.Sprintf("reason must not exceed %d characters", maxReasonLength))
	}

	return errs.Err()
}

// Dates returns the parsed range. Call after Validate.
func (r *SubmitLeaveRequest) Dates() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type ReviewLeaveRequest struct {
	Notes string `json:"notes"`
}

func (r *ReviewLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.Notes) > maxReasonLength {
		errs.Add("notes", fmt.Sprintf("notes must not exceed %d characters", maxReasonLength))
	}
	return errs.Err()
}

type LeaveRequestFilter struct {
	// Set by the service, never from the query string.
	EmployeeID *string `json:"-"`

	Status    *string `json:"status,omitempty"`
	LeaveType *string `json:"leave_type,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD, requests ending on or after
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD, requests starting on or before

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting by submission time
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, LeaveRequestStatuses()) {
		errs.Add("status", "status must be one of: "+strings.Join(LeaveRequestStatuses(), ", "))
	}
	if f.LeaveType != nil && !validator.IsInSlice(*f.LeaveType, LeaveTypes()) {
		errs.Add("leave_type", "leave_type must be one of: "+strings.Join(LeaveTypes(), ", "))
	}

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
		f.SortOrder = strings.ToLower(f.SortOrder)
	} else {
		f.SortOrder = "desc" // newest first
	}

	return errs.Err()
}

// Matches applies the filter to a single request. Used by in-memory storage.
func (f LeaveRequestFilter) Matches(r LeaveRequest) bool {
	if f.EmployeeID != nil && r.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Status != nil && string(r.Status) != *f.Status {
		return false
	}
	if f.LeaveType != nil && string(r.LeaveType) != *f.LeaveType {
		return false
	}
	if f.StartDate != nil {
		if from, ok := validator.IsValidDate(*f.StartDate); ok && r.EndDate.Before(from) {
			return false
		}
	}
	if f.EndDate != nil {
		if to, ok := validator.IsValidDate(*f.EndDate); ok && r.StartDate.After(to) {
			return false
		}
	}
	return true
}

func (f LeaveRequestFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type LeaveRequestResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	LeaveType     string          `json:"leave_type"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	DaysRequested decimal.Decimal `json:"days_requested"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	ReviewedBy    *string         `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	ManagerNotes  string          `json:"manager_notes,omitempty"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		LeaveType:     string(r.LeaveType),
		StartDate:     r.StartDate.Format(validator.DateLayout),
		EndDate:       r.EndDate.Format(validator.DateLayout),
		DaysRequested: r.DaysRequested,
		Reason:        r.Reason,
		Status:        string(r.Status),
		ReviewedBy:    r.ReviewedBy,
		ReviewedAt:    r.ReviewedAt,
		ManagerNotes:  r.ManagerNotes,
		SubmittedAt:   r.SubmittedAt,
	}
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Showing    string                 `json:"showing"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

func NewListLeaveRequestResponse(requests []LeaveRequest, totalCount int64, filter LeaveRequestFilter) ListLeaveRequestResponse {
	items := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, NewLeaveRequestResponse(r))
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(filter.Limit)))

	start := filter.Offset() + 1
	end := start + len(items) - 1
	if end > int(totalCount) {
		end = int(totalCount)
	}
	showing := fmt.Sprintf("%d-%d of %d results", start, end, totalCount)
	if totalCount == 0 || len(items) == 0 {
		showing = fmt.Sprintf("0 of %d results", totalCount)
	}

	return ListLeaveRequestResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Requests:   items,
	}
}

type OnLeaveTodayResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}
