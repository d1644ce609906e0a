package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
	"github.com/ethos-hrms/hrms-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvision_DefaultBalances(t *testing.T) {
	ctx := context.Background()
	svc := NewEmployeeService(memory.NewEmployeeRepository(memory.NewStore()))

	resp, err := svc.Provision(ctx, employee.ProvisionEmployeeRequest{
		EmployeeCode: "E-001",
		FirstName:    "Ana",
		LastName:     "Pop",
		Email:        " Ana.Pop@Example.com ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Ana Pop", resp.FullName)
	assert.Equal(t, "ana.pop@example.com", resp.Email)
	assert.Equal(t, "active", resp.Status)
	assert.True(t, resp.Balances.Annual.Equal(decimal.NewFromInt(15)))
	assert.True(t, resp.Balances.Vacation.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Balances.Sick.Equal(decimal.NewFromInt(10)))
}

func TestProvision_Overrides(t *testing.T) {
	ctx := context.Background()
	svc := NewEmployeeService(memory.NewEmployeeRepository(memory.NewStore()))

	annual := decimal.RequireFromString("3.5")
	resp, err := svc.Provision(ctx, employee.ProvisionEmployeeRequest{
		EmployeeCode:  "E-002",
		FirstName:     "Ion",
		Email:         "ion@example.com",
		AnnualBalance: &annual,
	})
	require.NoError(t, err)
	assert.True(t, resp.Balances.Annual.Equal(annual))
	assert.True(t, resp.Balances.Sick.Equal(decimal.NewFromInt(10)))
}

func TestProvision_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := NewEmployeeService(memory.NewEmployeeRepository(memory.NewStore()))

	negative := decimal.NewFromInt(-1)
	_, err := svc.Provision(ctx, employee.ProvisionEmployeeRequest{
		EmployeeCode: "E-003",
		FirstName:    "Bad",
		Email:        "not-an-email",
		SickBalance:  &negative,
	})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	_, err = svc.Provision(ctx, employee.ProvisionEmployeeRequest{EmployeeCode: "E-004", FirstName: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Provision(ctx, employee.ProvisionEmployeeRequest{EmployeeCode: "E-004", FirstName: "B", Email: "b@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
	assert.True(t, errors.Is(err, apperror.ErrPersistenceConflict))
}

func TestGetMe(t *testing.T) {
	ctx := context.Background()
	svc := NewEmployeeService(memory.NewEmployeeRepository(memory.NewStore()))

	created, err := svc.Provision(ctx, employee.ProvisionEmployeeRequest{EmployeeCode: "E-005", FirstName: "Mara", Email: "mara@example.com"})
	require.NoError(t, err)

	me, err := svc.GetMe(ctx, user.Principal{EmployeeID: created.ID, Role: user.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, created.ID, me.ID)

	_, err = svc.GetMe(ctx, user.Principal{Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrEmployeeIDRequired)

	_, err = svc.GetMe(ctx, user.Principal{EmployeeID: "missing", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
