package employee

import (
	"strings"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ProvisionEmployeeRequest struct {
	EmployeeCode string  `json:"employee_code"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	DepartmentID *string `json:"department_id,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	JobTitle     string  `json:"job_title"`

	// Optional overrides of the default balances.
	AnnualBalance   *decimal.Decimal `json:"annual_leave_balance,omitempty"`
	VacationBalance *decimal.Decimal `json:"vacation_leave_balance,omitempty"`
	SickBalance     *decimal.Decimal `json:"sick_leave_balance,omitempty"`
}

func (r *ProvisionEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	}
	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	}
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(strings.TrimSpace(r.Email)) {
		errs.Add("email", "email must be a valid email address")
	}
	for field, b := range map[string]*decimal.Decimal{
		"annual_leave_balance":   r.AnnualBalance,
		"vacation_leave_balance": r.VacationBalance,
		"sick_leave_balance":     r.SickBalance,
	} {
		if b != nil && b.IsNegative() {
			errs.Add(field, field+" must not be negative")
		}
	}

	return errs.Err()
}

type BalancesResponse struct {
	Annual   decimal.Decimal `json:"annual"`
	Vacation decimal.Decimal `json:"vacation"`
	Sick     decimal.Decimal `json:"sick"`
}

func NewBalancesResponse(b Balances) BalancesResponse {
	return BalancesResponse{
		Annual:   b.Annual.Round(2),
		Vacation: b.Vacation.Round(2),
		Sick:     b.Sick.Round(2),
	}
}

type EmployeeResponse struct {
	ID           string           `json:"id"`
	EmployeeCode string           `json:"employee_code"`
	FullName     string           `json:"full_name"`
	Email        string           `json:"email"`
	DepartmentID *string          `json:"department_id,omitempty"`
	ManagerID    *string          `json:"manager_id,omitempty"`
	JobTitle     string           `json:"job_title"`
	Status       string           `json:"status"`
	Balances     BalancesResponse `json:"balances"`
	CreatedAt    time.Time        `json:"created_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName(),
		Email:        e.Email,
		DepartmentID: e.DepartmentID,
		ManagerID:    e.ManagerID,
		JobTitle:     e.JobTitle,
		Status:       string(e.Status),
		Balances:     NewBalancesResponse(e.Balances),
		CreatedAt:    e.CreatedAt,
	}
}
