package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepository,
	}
}

// GetMe implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMe(ctx context.Context, principal user.Principal) (employee.EmployeeResponse, error) {
	if principal.EmployeeID == "" {
		return employee.EmployeeResponse{}, user.ErrEmployeeIDRequired
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, principal.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// Provision implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Provision(ctx context.Context, req employee.ProvisionEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	balances := employee.DefaultBalances()
	if req.AnnualBalance != nil {
		balances.Annual = req.AnnualBalance.Round(2)
	}
	if req.VacationBalance != nil {
		balances.Vacation = req.VacationBalance.Round(2)
	}
	if req.SickBalance != nil {
		balances.Sick = req.SickBalance.Round(2)
	}

	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		EmployeeCode: strings.TrimSpace(req.EmployeeCode),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
		JobTitle:     strings.TrimSpace(req.JobTitle),
		Status:       employee.StatusActive,
		Balances:     balances,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to provision employee %s: %w", req.EmployeeCode, err)
	}

	slog.Info("Employee provisioned", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	return employee.NewEmployeeResponse(created), nil
}
