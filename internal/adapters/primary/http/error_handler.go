package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/lorrc/ticket-insights/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	// Check for AppError first (our custom error type)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err, requestID)
		h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	// Check for ValidationErrors
	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err, requestID)
		h.writeValidationErrorResponse(w, validationErrs)
		return
	}

	// Map known domain errors to HTTP responses
	appErr = h.mapDomainError(err)
	h.logError(r, appErr.StatusCode, err, requestID)
	h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}

// mapDomainError converts domain errors to application errors
func (h *ErrorHandler) mapDomainError(err error) *apperrors.AppError {
	switch {
	// Authentication & Authorization
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return withCode(apperrors.NewUnauthorizedError("Invalid credentials"), err, "INVALID_CREDENTIALS")
	case errors.Is(err, apperrors.ErrSessionExpired):
		return apperrors.NewSessionExpiredError()
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrSessionNotFound):
		return apperrors.NewUnauthorizedError("Authentication required")
	case errors.Is(err, apperrors.ErrForbidden):
		return apperrors.NewForbiddenError("You do not have permission to perform this action")

	// Not Found errors
	case errors.Is(err, apperrors.ErrUserNotFound):
		return withCode(apperrors.NewNotFoundError(err, "User not found"), err, "USER_NOT_FOUND")
	case errors.Is(err, apperrors.ErrNoDataset):
		return withCode(apperrors.NewNotFoundError(err, "No dataset has been imported yet"), err, "NO_DATASET")
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewNotFoundError(err, "Resource not found")

	// Conflict errors
	case errors.Is(err, apperrors.ErrUserExists):
		return withCode(apperrors.NewConflictError(err, "A user with this username already exists"), err, "USER_EXISTS")
	case errors.Is(err, apperrors.ErrConflict):
		return apperrors.NewConflictError(err, "Resource conflict")

	// Upload errors
	case errors.Is(err, apperrors.ErrUploadTooLarge):
		return &apperrors.AppError{
			Err:        err,
			Message:    "Uploaded file is too large",
			Code:       "UPLOAD_TOO_LARGE",
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return &apperrors.AppError{
			Err:        err,
			Message:    "Unsupported file format. Upload a .csv, .xlsx or .json file",
			Code:       "UNSUPPORTED_FORMAT",
			StatusCode: http.StatusUnsupportedMediaType,
		}
	case errors.Is(err, apperrors.ErrEmptyUpload),
		errors.Is(err, apperrors.ErrMissingHeader):
		return withCode(apperrors.NewBadRequestError(err, err.Error()), err, "INVALID_UPLOAD")

	// Validation errors
	case errors.Is(err, apperrors.ErrUsernameRequired),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrPasswordTooWeak),
		errors.Is(err, apperrors.ErrPasswordRequired),
		errors.Is(err, apperrors.ErrInvalidSortColumn),
		errors.Is(err, apperrors.ErrBadRequest):
		return withCode(apperrors.NewBadRequestError(err, err.Error()), err, "VALIDATION_ERROR")

	// Rate limiting
	case errors.Is(err, apperrors.ErrRateLimited):
		return apperrors.NewRateLimitError()

	// Default to internal server error
	default:
		return apperrors.NewInternalError(err)
	}
}

// withCode keeps the constructor's status but reports a more specific code.
func withCode(appErr *apperrors.AppError, err error, code string) *apperrors.AppError {
	appErr.Err = err
	appErr.Code = code
	return appErr
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error, requestID string) {
	logAttrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	// Log at different levels based on status code
	switch {
	case statusCode >= 500:
		h.logger.Error("server error", logAttrs...)
	case statusCode >= 400:
		h.logger.Warn("client error", logAttrs...)
	default:
		h.logger.Info("request error", logAttrs...)
	}
}

// writeErrorResponse writes a JSON error response
func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// writeValidationErrorResponse writes a validation error response
func (h *ErrorHandler) writeValidationErrorResponse(w http.ResponseWriter, errs *apperrors.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: errs.Errors,
	})
}
