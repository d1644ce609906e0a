package memory

import (
	"context"
	"sort"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	err := r.store.write(ctx, func(t *tables) error {
		for _, e := range t.employees {
			if e.EmployeeCode == newEmployee.EmployeeCode {
				return employee.ErrEmployeeCodeExists
			}
			if e.Email == newEmployee.Email {
				return employee.ErrEmailExists
			}
		}
		if newEmployee.ID == "" {
			newEmployee.ID = uuid.New().String()
		}
		if newEmployee.Status == "" {
			newEmployee.Status = employee.StatusActive
		}
		now := r.store.now()
		newEmployee.CreatedAt, newEmployee.UpdatedAt = now, now
		t.employees[newEmployee.ID] = newEmployee
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return newEmployee, nil
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	var (
		emp employee.Employee
		ok  bool
	)
	r.store.read(func(t *tables) {
		emp, ok = t.employees[id]
	})
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeRepository) GetByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	r.store.read(func(t *tables) {
		for _, id := range ids {
			if emp, ok := t.employees[id]; ok {
				out = append(out, emp)
			}
		}
	})
	sortEmployees(out)
	return out, nil
}

func (r *employeeRepository) ListByStatus(_ context.Context, statuses ...employee.Status) ([]employee.Employee, error) {
	want := make(map[employee.Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []employee.Employee
	r.store.read(func(t *tables) {
		for _, emp := range t.employees {
			if want[emp.Status] {
				out = append(out, emp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r *employeeRepository) UpdateStatus(ctx context.Context, id string, status employee.Status) error {
	return r.store.write(ctx, func(t *tables) error {
		emp, ok := t.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		emp.Status = status
		emp.UpdatedAt = r.store.now()
		t.employees[id] = emp
		return nil
	})
}

func (r *employeeRepository) DeductBalance(ctx context.Context, id string, kind employee.BalanceKind, days decimal.Decimal) error {
	return r.store.write(ctx, func(t *tables) error {
		emp, ok := t.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		if err := emp.Balances.Deduct(kind, days); err != nil {
			return err
		}
		emp.UpdatedAt = r.store.now()
		t.employees[id] = emp
		return nil
	})
}

func sortEmployees(list []employee.Employee) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].FullName() < list[j].FullName()
	})
}
