package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	DepartmentID *string
	ManagerID    *string
	JobTitle     string
	Status       Status
	Balances     Balances
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

type Status string

const (
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

// BalanceKind names one of the three tracked leave balances.
type BalanceKind string

const (
	BalanceAnnual   BalanceKind = "annual"
	BalanceVacation BalanceKind = "vacation"
	BalanceSick     BalanceKind = "sick"
)

// Balances holds remaining leave days, two decimal places.
type Balances struct {
	Annual   decimal.Decimal
	Vacation decimal.Decimal
	Sick     decimal.Decimal
}

// DefaultBalances is what a newly provisioned employee starts with.
func DefaultBalances() Balances {
	return Balances{
		Annual:   decimal.NewFromInt(15),
		Vacation: decimal.NewFromInt(10),
		Sick:     decimal.NewFromInt(10),
	}
}

// Of returns the balance for kind and false for an unknown kind.
func (b Balances) Of(kind BalanceKind) (decimal.Decimal, bool) {
	switch kind {
	case BalanceAnnual:
		return b.Annual, true
	case BalanceVacation:
		return b.Vacation, true
	case BalanceSick:
		return b.Sick, true
	}
	return decimal.Zero, false
}

// Deduct subtracts days from kind. It refuses to go below zero.
func (b *Balances) Deduct(kind BalanceKind, days decimal.Decimal) error {
	current, ok := b.Of(kind)
	if !ok {
		return ErrUnknownBalanceKind
	}
	if current.LessThan(days) {
		return ErrInsufficientBalance
	}
	next := current.Sub(days).Round(2)
	switch kind {
	case BalanceAnnual:
		b.Annual = next
	case BalanceVacation:
		b.Vacation = next
	case BalanceSick:
		b.Sick = next
	}
	return nil
}

func (b Balances) Total() decimal.Decimal {
	return b.Annual.Add(b.Vacation).Add(b.Sick)
}
