package user

import "fmt"

type Role string

const (
	RoleEmployee Role = "employee" // Self-service only
	RoleManager  Role = "manager"  // Reviews leave for the team
	RoleHR       Role = "hr"       // HR staff
	RoleAdmin    Role = "admin"    // System administrator
)

// AllRoles returns every role known to the access policy.
func AllRoles() []Role {
	return []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}
}

// ParseRole converts a claim or config value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Principal is the authenticated caller handed over by the identity provider.
type Principal struct {
	EmployeeID       string
	Email            string
	Role             Role
	EmploymentStatus string

	TwoFactorEnabled  bool
	TwoFactorVerified bool
}

// NeedsTwoFactor reports whether the caller still has to finish 2FA.
func (p Principal) NeedsTwoFactor() bool {
	return p.TwoFactorEnabled && !p.TwoFactorVerified
}
