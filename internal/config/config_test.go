package config

import (
	"testing"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyEnvKey(t *testing.T) {
	assert.Equal(t, "POLICY_LEAVE_APPROVE", PolicyEnvKey(user.ActionLeaveApprove))
	assert.Equal(t, "POLICY_ATTENDANCE_APPROVE_CORRECTION", PolicyEnvKey(user.ActionAttendanceApprove))
}

func TestParseRoles(t *testing.T) {
	roles, err := ParseRoles(" hr, admin ,")
	require.NoError(t, err)
	assert.Equal(t, []user.Role{user.RoleHR, user.RoleAdmin}, roles)

	_, err = ParseRoles("hr,owner")
	assert.ErrorIs(t, err, user.ErrUnknownRole)
}

func TestLoad_MemoryWithPolicyOverride(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("POLICY_LEAVE_APPROVE", "hr,admin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []user.Role{user.RoleHR, user.RoleAdmin}, cfg.Policy.Permissions[user.ActionLeaveApprove])
	assert.ElementsMatch(t, user.AllRoles(), cfg.Policy.Permissions[user.ActionLeaveCreate])
}

func TestLoad_RejectsUnknownRole(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("POLICY_ATTENDANCE_APPROVE_CORRECTION", "hr,superuser")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, user.ErrUnknownRole)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Storage:      StorageConfig{Driver: StorageDriverPostgres},
		JWT:          JWTConfig{Secret: "s", AccessExpiration: "1h"},
		Notification: NotificationConfig{Workers: 1, QueueSize: 1},
	}
	assert.EqualError(t, cfg.Validate(), "DB_PASSWORD is required")

	cfg.Storage.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg.Storage.Driver = StorageDriverMemory
	assert.NoError(t, cfg.Validate())
}
