package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/repository/memory"
	employeeService "github.com/ethos-hrms/hrms-backend-go/internal/service/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedEmployees(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"employee_code": "E-001", "first_name": "Ana", "last_name": "Pop", "email": "ana@example.com"},
		{"employee_code": "E-002", "first_name": "Ion", "email": "ion@example.com", "annual_leave_balance": "20"}
	]`), 0o600))

	repo := memory.NewEmployeeRepository(memory.NewStore())
	require.NoError(t, seedEmployees(ctx, employeeService.NewEmployeeService(repo), path))

	list, err := repo.ListByStatus(ctx, employee.StatusActive)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "20", list[1].Balances.Annual.String())
}

func TestSeedEmployees_BadFile(t *testing.T) {
	svc := employeeService.NewEmployeeService(memory.NewEmployeeRepository(memory.NewStore()))

	assert.Error(t, seedEmployees(context.Background(), svc, filepath.Join(t.TempDir(), "missing.json")))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o600))
	assert.Error(t, seedEmployees(context.Background(), svc, path))
}
