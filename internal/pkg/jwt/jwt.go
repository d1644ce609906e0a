package jwt

import (
	"fmt"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

const sseTokenTTL = 5 * time.Minute

// Service mints and reads the tokens issued by the identity provider. Only
// the claims the workflows need are modelled.
type Service interface {
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	GenerateSSEToken(p user.Principal) (token string, expiresIn int, err error)
	PrincipalFromClaims(claims map[string]interface{}, wantType string) (user.Principal, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, acceptableSkew time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(acceptableSkew)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := principalClaims(p)
	claims["type"] = TokenTypeAccess
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken issues a short-lived token for EventSource clients, which
// cannot send an Authorization header.
func (j *JWTService) GenerateSSEToken(p user.Principal) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenTTL).Unix()

	claims := principalClaims(p)
	claims["type"] = TokenTypeSSE
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// PrincipalFromClaims converts verified token claims into a Principal.
func (j *JWTService) PrincipalFromClaims(claims map[string]interface{}, wantType string) (user.Principal, error) {
	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return user.Principal{}, fmt.Errorf("%w: token type %q", user.ErrInvalidPrincipal, tokenType)
	}

	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		return user.Principal{}, user.ErrEmployeeIDRequired
	}

	roleStr, _ := claims["role"].(string)
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", user.ErrInvalidPrincipal, err)
	}

	p := user.Principal{
		EmployeeID: employeeID,
		Role:       role,
	}
	p.Email, _ = claims["email"].(string)
	p.EmploymentStatus, _ = claims["employment_status"].(string)
	p.TwoFactorEnabled, _ = claims["two_factor_enabled"].(bool)
	p.TwoFactorVerified, _ = claims["two_factor_verified"].(bool)
	return p, nil
}

func principalClaims(p user.Principal) map[string]interface{} {
	return map[string]interface{}{
		"employee_id":         p.EmployeeID,
		"email":               p.Email,
		"role":                string(p.Role),
		"employment_status":   p.EmploymentStatus,
		"two_factor_enabled":  p.TwoFactorEnabled,
		"two_factor_verified": p.TwoFactorVerified,
	}
}
