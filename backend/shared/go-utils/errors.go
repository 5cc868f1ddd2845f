// backend/shared/go-utils/errors.go
package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Domain-level errors shared by repositories and services.
var (
	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For external service failures (e.g., Twilio, SendGrid, Redis)
	ErrExternalServiceFailure = errors.New("external_service_failure")

	// A storage round-trip exceeded its deadline. Callers may retry.
	ErrStorageTimeout = errors.New("storage_timeout")
)

// AppError carries a structured failure from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
	Retryable  bool
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewValidationError reports a bad request and names the offending field.
func NewValidationError(field, message string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeValidation,
		Message:    message,
		Field:      field,
	}
}

// NewNotFoundError reports an identifier that does not resolve.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		StatusCode: http.StatusNotFound,
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
	}
}

// NewConflictError reports an overlapping reservation. It is sent as a 400
// with success=false, which is what existing clients expect.
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeBookingConflict,
		Message:    message,
		Err:        err,
	}
}

// NewTransitionError reports a status change the lifecycle does not allow.
func NewTransitionError(from, to string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeInvalidTransition,
		Message:    fmt.Sprintf("cannot change status from %s to %s", from, to),
		Field:      "status",
	}
}

// NewStorageTimeoutError wraps a deadline hit while talking to the database.
func NewStorageTimeoutError(err error) *AppError {
	return &AppError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       ErrCodeStorageTimeout,
		Message:    "Storage did not respond in time, please retry",
		Retryable:  true,
		Err:        fmt.Errorf("%w: %v", ErrStorageTimeout, err),
	}
}

// HandleAppError centralizes responding to AppErrors. Anything else is an
// unexpected fault: it is logged and echoed back as a 500 with its text.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		writeError(w, appErr.StatusCode, ErrorResponse{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Field:     appErr.Field,
			Retryable: appErr.Retryable,
		}, appErr.Err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrStorageTimeout):
		HandleAppError(w, NewStorageTimeoutError(err))
	default:
		writeError(w, http.StatusInternalServerError, ErrorResponse{
			Code:    ErrCodeInternal,
			Message: "An unexpected error occurred",
			Error:   err.Error(),
		}, err)
	}
}
