package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, employee_code, first_name, last_name, email, department_id, manager_id, job_title, status,
	annual_leave_balance, vacation_leave_balance, sick_leave_balance, created_at, updated_at`

var balanceColumns = map[employee.BalanceKind]string{
	employee.BalanceAnnual:   "annual_leave_balance",
	employee.BalanceVacation: "vacation_leave_balance",
	employee.BalanceSick:     "sick_leave_balance",
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.DepartmentID, &emp.ManagerID, &emp.JobTitle, &emp.Status,
		&emp.Balances.Annual, &emp.Balances.Vacation, &emp.Balances.Sick,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.New().String()
	}
	if newEmployee.Status == "" {
		newEmployee.Status = employee.StatusActive
	}

	query := `
		INSERT INTO employees (
			id, employee_code, first_name, last_name, email, department_id, manager_id, job_title, status,
			annual_leave_balance, vacation_leave_balance, sick_leave_balance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FirstName, newEmployee.LastName,
		newEmployee.Email, newEmployee.DepartmentID, newEmployee.ManagerID, newEmployee.JobTitle,
		newEmployee.Status, newEmployee.Balances.Annual, newEmployee.Balances.Vacation, newEmployee.Balances.Sick,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err, "employees_employee_code_key"):
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		case isUniqueViolation(err, "employees_email_key"):
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", mapError(err))
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !isValidID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return emp, nil
}

// GetByIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1::uuid[]) ORDER BY first_name, last_name`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListByStatus implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByStatus(ctx context.Context, statuses ...employee.Status) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE status = ANY($1) ORDER BY employee_code`

	rows, err := q.Query(ctx, query, values)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// UpdateStatus implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateStatus(ctx context.Context, id string, status employee.Status) error {
	if !isValidID(id) {
		return employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for employee %s: %w", id, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// DeductBalance implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) DeductBalance(ctx context.Context, id string, kind employee.BalanceKind, days decimal.Decimal) error {
	if !isValidID(id) {
		return employee.ErrEmployeeNotFound
	}
	column, ok := balanceColumns[kind]
	if !ok {
		return employee.ErrUnknownBalanceKind
	}
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		UPDATE employees
		SET %[1]s = %[1]s - $1, updated_at = NOW()
		WHERE id = $2 AND %[1]s >= $1
	`, column)

	tag, err := q.Exec(ctx, query, days, id)
	if err != nil {
		return fmt.Errorf("failed to deduct %s balance for employee %s: %w", kind, id, mapError(err))
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Tell a missing employee apart from a failed guard.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check employee %s: %w", id, err)
	}
	if !exists {
		return employee.ErrEmployeeNotFound
	}
	return employee.ErrInsufficientBalance
}
