package employee

import (
	"context"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
)

// EmployeeService is the thin directory surface the workflows need.
type EmployeeService interface {
	// GetMe returns the caller's own employee record.
	GetMe(ctx context.Context, principal user.Principal) (EmployeeResponse, error)

	// Provision creates an employee with default balances unless overridden.
	Provision(ctx context.Context, req ProvisionEmployeeRequest) (EmployeeResponse, error)
}
