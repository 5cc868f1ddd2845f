// backend/shared/go-utils/response.go
package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeValidation         = "validation_error"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeTokenExpired       = "token_expired"
	ErrCodeInternal           = "internal_server_error"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeBookingConflict    = "booking_conflict"
	ErrCodeInvalidTransition  = "invalid_transition"
	ErrCodeRowVersionConflict = "row_version_conflict"
	ErrCodeStorageTimeout     = "storage_timeout"
	ErrCodeServiceUnavailable = "service_unavailable"
)

// ErrorResponse is the body of every failed request. Success is always false
// so clients never have to rely on the HTTP status alone.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RespondErrorWithCode builds a JSON error response with a standard
// code and message. The optional `details` is included if non-nil.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicMessage string,
	details any,
	devErrs ...error,
) {
	var devErr error
	if len(devErrs) > 0 {
		devErr = devErrs[0]
	}
	writeError(w, status, ErrorResponse{
		Code:    errorCode,
		Message: publicMessage,
		Details: details,
	}, devErr)
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse, devErr error) {
	body.Success = false
	RespondWithJSON(w, status, body)

	fields := logrus.Fields{"status": status, "code": body.Code}
	if devErr != nil {
		fields["error"] = devErr.Error()
	}
	entry := Logger.WithFields(fields)
	if status >= http.StatusInternalServerError {
		entry.Error(body.Message)
	} else {
		entry.Warn(body.Message)
	}
}

// RespondSuccess writes the standard success envelope.
func RespondSuccess(w http.ResponseWriter, status int, message string, data any) {
	RespondWithJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

// RespondList writes the success envelope with an item count.
func RespondList(w http.ResponseWriter, message string, count int, data any) {
	RespondWithJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Count:   &count,
		Data:    data,
	})
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
