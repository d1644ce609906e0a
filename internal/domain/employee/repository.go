package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Employee, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// DeductBalance subtracts days from one balance only if the result stays
	// non-negative. Returns ErrInsufficientBalance when the guard fails.
	DeductBalance(ctx context.Context, id string, kind BalanceKind, days decimal.Decimal) error
}
