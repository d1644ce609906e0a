package user

import (
	"errors"
	"testing"

	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := NewPolicy(DefaultPermissions())

	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleEmployee, ActionLeaveCreate, true},
		{RoleEmployee, ActionLeaveApprove, false},
		{RoleManager, ActionLeaveApprove, true},
		{RoleHR, ActionLeaveApprove, true},
		{RoleAdmin, ActionLeaveApprove, true},
		{RoleManager, ActionAttendanceApprove, false},
		{RoleHR, ActionAttendanceApprove, true},
		{RoleAdmin, ActionAttendanceViewAll, true},
		{RoleEmployee, ActionAttendanceCreateCorrection, true},
		{Role("intern"), ActionLeaveCreate, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, p.Authorize(c.role, c.action), "%s / %s", c.role, c.action)
	}
}

func TestPolicy_OverrideTable(t *testing.T) {
	perms := DefaultPermissions()
	perms[ActionLeaveApprove] = []Role{RoleHR, RoleAdmin}
	p := NewPolicy(perms)

	assert.False(t, p.Authorize(RoleManager, ActionLeaveApprove))
	assert.Equal(t, []Role{RoleAdmin, RoleHR}, p.Roles(ActionLeaveApprove))
}

func TestPolicy_MissingActionDenied(t *testing.T) {
	p := NewPolicy(map[Action][]Role{ActionLeaveCreate: {RoleEmployee}})
	assert.False(t, p.Authorize(RoleAdmin, ActionLeaveApprove))

	var nilPolicy *Policy
	assert.False(t, nilPolicy.Authorize(RoleAdmin, ActionLeaveCreate))
}

func TestPolicy_Require(t *testing.T) {
	p := NewPolicy(DefaultPermissions())

	err := p.Require(Principal{EmployeeID: "e1", Role: RoleEmployee}, ActionLeaveApprove)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	assert.NoError(t, p.Require(Principal{EmployeeID: "m1", Role: RoleManager}, ActionLeaveApprove))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("hr")
	require.NoError(t, err)
	assert.Equal(t, RoleHR, r)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestPrincipal_NeedsTwoFactor(t *testing.T) {
	assert.False(t, Principal{}.NeedsTwoFactor())
	assert.True(t, Principal{TwoFactorEnabled: true}.NeedsTwoFactor())
	assert.False(t, Principal{TwoFactorEnabled: true, TwoFactorVerified: true}.NeedsTwoFactor())
}
