package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/handler/http/response"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
)

type principalCtxKey struct{}

// WithPrincipal stores the authenticated caller on ctx.
func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the caller set by Authenticate.
func PrincipalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(user.Principal)
	return p, ok
}

// Authenticate turns the verified token into a Principal. It must run after
// jwtauth.Verifier. tokenType selects access or SSE tokens.
func Authenticate(jwtService jwt.Service, tokenType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, tokenErrorMessage(err))
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing token")
				return
			}

			principal, err := jwtService.PrincipalFromClaims(claims, tokenType)
			if err != nil {
				slog.Debug("Rejected token claims", "error", err)
				response.HandleError(w, err)
				return
			}

			if principal.NeedsTwoFactor() {
				response.HandleError(w, user.ErrTwoFactorRequired)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		}
		return http.HandlerFunc(hfn)
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwtauth.ErrNoTokenFound):
		return "Missing token"
	case errors.Is(err, jwxjwt.ErrTokenExpired()), errors.Is(err, jwtauth.ErrExpired):
		return "Token expired"
	default:
		return "Invalid token"
	}
}
