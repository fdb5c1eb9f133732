package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field-level validation failures
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		field := appErr.Field
		if field == "" {
			field = "request"
		}
		ValidationError(w, map[string]string{field: appErr.Message})
	case apperror.KindConflict:
		Conflict(w, "CONFLICT", appErr.Error(), recordDetails(appErr))
	case apperror.KindNotFound:
		NotFound(w, appErr.Message, recordDetails(appErr))
	case apperror.KindInvalidState:
		Conflict(w, "INVALID_STATE", appErr.Message, recordDetails(appErr))
	case apperror.KindUnresolvedRate:
		UnresolvedRate(w, appErr.Message, appErr.Details)
	default:
		slog.Error("Unhandled application error", "kind", appErr.Kind, "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func recordDetails(e *apperror.Error) map[string]string {
	if e.Resource == "" && e.RecordID == "" {
		return nil
	}
	details := map[string]string{"resource": e.Resource}
	if e.RecordID != "" {
		details["record_id"] = e.RecordID
	}
	return details
}
