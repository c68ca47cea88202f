package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"adminpanel/internal/domain"
)

// StatusFor maps a service error to its HTTP status and API error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, ErrMalformedForm):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, ErrCodeTooLarge
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrBranchNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrDuplicateUsername), errors.Is(err, domain.ErrBranchInUse):
		return http.StatusConflict, ErrCodeConflict
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteServiceError writes err as a JSON error. Validation errors carry their
// problems. Unmapped errors are logged and answered with a generic 500 message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, code, "Error interno del servidor")
		return
	}
	apiErr := &APIError{Code: code, Message: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		apiErr.Problems = verr.Problems
	}
	WriteAPIError(w, status, apiErr)
}
