package middleware

import (
	"fmt"
	"net/http"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/handler/http/response"
)

// RequirePermission rejects callers whose role the policy does not allow for
// action. Services check again; this keeps denied calls off the handlers.
func RequirePermission(policy *user.Policy, action user.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrInvalidPrincipal)
				return
			}

			if !policy.Authorize(principal.Role, action) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", action, principal.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
