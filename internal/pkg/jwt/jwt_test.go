package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeClaims(t *testing.T, s *JWTService, token string) map[string]interface{} {
	t.Helper()
	tok, err := s.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := tok.AsMap(context.Background())
	require.NoError(t, err)
	return claims
}

func TestAccessToken_RoundTrip(t *testing.T) {
	s := NewJWTService("secret", "1h", 30*time.Second)
	want := user.Principal{
		EmployeeID:        "emp-1",
		Email:             "ana@example.com",
		Role:              user.RoleManager,
		EmploymentStatus:  "active",
		TwoFactorEnabled:  true,
		TwoFactorVerified: true,
	}

	token, expiresAt, err := s.GenerateAccessToken(want)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	got, err := s.PrincipalFromClaims(decodeClaims(t, s, token), TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPrincipalFromClaims_WrongType(t *testing.T) {
	s := NewJWTService("secret", "1h", 0)
	token, _, err := s.GenerateSSEToken(user.Principal{EmployeeID: "emp-1", Role: user.RoleEmployee})
	require.NoError(t, err)

	_, err = s.PrincipalFromClaims(decodeClaims(t, s, token), TokenTypeAccess)
	assert.ErrorIs(t, err, user.ErrInvalidPrincipal)

	p, err := s.PrincipalFromClaims(decodeClaims(t, s, token), TokenTypeSSE)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", p.EmployeeID)
}

func TestPrincipalFromClaims_Invalid(t *testing.T) {
	s := NewJWTService("secret", "1h", 0)

	_, err := s.PrincipalFromClaims(map[string]interface{}{"type": "access", "role": "hr"}, TokenTypeAccess)
	assert.ErrorIs(t, err, user.ErrEmployeeIDRequired)

	_, err = s.PrincipalFromClaims(map[string]interface{}{"type": "access", "employee_id": "e", "role": "owner"}, TokenTypeAccess)
	assert.ErrorIs(t, err, user.ErrInvalidPrincipal)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	s := NewJWTService("secret", "forever", 0)
	_, _, err := s.GenerateAccessToken(user.Principal{EmployeeID: "e", Role: user.RoleHR})
	assert.Error(t, err)
}
