package user

import (
	"sort"
)

// Action is a workflow transition or view guarded by the access policy.
type Action string

const (
	// Leave
	ActionLeaveCreate  Action = "leave.create"
	ActionLeaveCancel  Action = "leave.cancel_own"
	ActionLeaveViewOwn Action = "leave.view_own"
	ActionLeaveViewAll Action = "leave.view_all"
	ActionLeaveApprove Action = "leave.approve"

	// Attendance
	ActionAttendanceViewOwn          Action = "attendance.view_own"
	ActionAttendanceCreateCorrection Action = "attendance.create_correction"
	ActionAttendanceViewAll          Action = "attendance.view_all"
	ActionAttendanceApprove          Action = "attendance.approve_correction"

	// Notifications
	ActionNotificationViewOwn Action = "notification.view_own"
)

// AllActions lists every action the policy table may contain.
func AllActions() []Action {
	return []Action{
		ActionLeaveCreate,
		ActionLeaveCancel,
		ActionLeaveViewOwn,
		ActionLeaveViewAll,
		ActionLeaveApprove,
		ActionAttendanceViewOwn,
		ActionAttendanceCreateCorrection,
		ActionAttendanceViewAll,
		ActionAttendanceApprove,
		ActionNotificationViewOwn,
	}
}

// DefaultPermissions mirrors the latest revision of the HR back office:
// managers review leave, only HR and admins review attendance corrections.
func DefaultPermissions() map[Action][]Role {
	everyone := AllRoles()
	reviewers := []Role{RoleManager, RoleHR, RoleAdmin}
	hrOnly := []Role{RoleHR, RoleAdmin}

	return map[Action][]Role{
		ActionLeaveCreate:                everyone,
		ActionLeaveCancel:                everyone,
		ActionLeaveViewOwn:               everyone,
		ActionLeaveViewAll:               reviewers,
		ActionLeaveApprove:               reviewers,
		ActionAttendanceViewOwn:          everyone,
		ActionAttendanceCreateCorrection: everyone,
		ActionAttendanceViewAll:          hrOnly,
		ActionAttendanceApprove:          hrOnly,
		ActionNotificationViewOwn:        everyone,
	}
}

// Policy is an explicit {action: roles} table. The zero value denies everything.
type Policy struct {
	table map[Action]map[Role]struct{}
}

// NewPolicy builds a policy from a permission table. Actions missing from the
// table are denied for every role.
func NewPolicy(permissions map[Action][]Role) *Policy {
	p := &Policy{table: make(map[Action]map[Role]struct{}, len(permissions))}
	for action, roles := range permissions {
		set := make(map[Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		p.table[action] = set
	}
	return p
}

// Authorize reports whether role may perform action.
func (p *Policy) Authorize(role Role, action Action) bool {
	if p == nil {
		return false
	}
	roles, ok := p.table[action]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}

// Require returns ErrForbidden unless principal may perform action.
func (p *Policy) Require(principal Principal, action Action) error {
	if !p.Authorize(principal.Role, action) {
		return ErrForbidden
	}
	return nil
}

// Roles lists the roles allowed for action, sorted for stable output.
func (p *Policy) Roles(action Action) []Role {
	var out []Role
	for r := range p.table[action] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
