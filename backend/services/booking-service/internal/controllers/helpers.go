package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	shared_dtos "github.com/MikyMack/TranshaStays/backend/shared/go-dtos"
	"github.com/MikyMack/TranshaStays/backend/shared/go-middleware"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Auditor receives every successful admin mutation. *services.AuditService
// satisfies it.
type Auditor interface {
	Record(ctx context.Context, adminID string, action models.AuditAction, target models.AuditTargetType, targetID uuid.UUID, snapshot any)
}

// audit is a no-op without an Auditor.
func audit(r *http.Request, a Auditor, action models.AuditAction, target models.AuditTargetType, rawID string, snapshot any) {
	if a == nil {
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return
	}
	adminID, _ := middleware.AdminID(r.Context())
	a.Record(r.Context(), adminID, action, target, id, snapshot)
}

// validate reports json field names so messages match the request body.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate writes the error response itself and returns false when
// the body is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := shared_dtos.NewValidationErrorDetails(verrs)
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, details[0].Message, details, err)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}

// decodeOptional accepts an empty body and leaves dst untouched.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	return true
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	switch strings.ToLower(raw) {
	case "":
		return nil, nil
	case "true", "1":
		return utils.Ptr(true), nil
	case "false", "0":
		return utils.Ptr(false), nil
	}
	return nil, utils.NewValidationError(name, name+" must be true or false")
}
