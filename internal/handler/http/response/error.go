package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/apperror"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
)

type errorMapping struct {
	status int
	code   string
}

var kindMappings = map[apperror.Kind]errorMapping{
	apperror.KindInvalidInput:        {http.StatusBadRequest, CodeBadRequest},
	apperror.KindInsufficientBalance: {http.StatusBadRequest, CodeInsufficientBalance},
	apperror.KindNotFound:            {http.StatusNotFound, CodeNotFound},
	apperror.KindInvalidState:        {http.StatusConflict, CodeConflict},
	apperror.KindUnauthorized:        {http.StatusForbidden, CodeForbidden},
	apperror.KindPersistenceConflict: {http.StatusConflict, CodePersistenceConflict},
}

// HandleError maps domain errors to HTTP responses by their kind.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Fail(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, user.ErrInvalidPrincipal), errors.Is(err, user.ErrEmployeeIDRequired):
		Unauthorized(w, err.Error())
		return
	case errors.Is(err, user.ErrTwoFactorRequired):
		Fail(w, http.StatusForbidden, CodeTwoFactorRequired, err.Error(), nil)
		return
	}

	kind, ok := apperror.KindOf(err)
	mapping, known := kindMappings[kind]
	if !ok || !known {
		slog.Error("Unhandled error", "kind", kind, "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	var details map[string]string
	if kind == apperror.KindPersistenceConflict {
		details = map[string]string{"retry": "the request may be retried"}
	}
	Fail(w, mapping.status, mapping.code, err.Error(), details)
}
