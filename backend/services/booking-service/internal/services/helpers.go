package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"
)

// storageCtx bounds one storage round-trip.
func storageCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// storageErr turns a deadline into the retryable timeout error and passes
// anything else through for HandleAppError to report.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return utils.NewStorageTimeoutError(err)
	}
	if errors.Is(err, utils.ErrRowVersionConflict) {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeRowVersionConflict,
			Message:    constants.ErrMsgRowVersion,
			Err:        err,
		}
	}
	return err
}

// notFoundOr maps pgx.ErrNoRows to a 404 for resource.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.NewNotFoundError(resource)
	}
	return storageErr(err)
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.NewValidationError(field, field+" is not a valid id")
	}
	return id, nil
}

func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseStay parses a closed stay whose check-out must follow check-in.
func parseStay(checkIn, checkOut string) (models.DateRange, error) {
	in, err := utils.ParseDate(checkIn)
	if err != nil {
		return models.DateRange{}, utils.NewValidationError("checkInDate", "checkInDate is not a valid date")
	}
	out, err := utils.ParseDate(checkOut)
	if err != nil {
		return models.DateRange{}, utils.NewValidationError("checkOutDate", "checkOutDate is not a valid date")
	}
	rng, err := models.NewDateRange(in, &out)
	if err != nil {
		return models.DateRange{}, utils.NewValidationError("checkOutDate", "Invalid check-in/check-out dates")
	}
	return rng, nil
}

// parseOpenStay is parseStay with an optional end.
func parseOpenStay(startField, endField, start string, end *string) (models.DateRange, error) {
	s, err := utils.ParseDate(start)
	if err != nil {
		return models.DateRange{}, utils.NewValidationError(startField, startField+" is not a valid date")
	}
	e, err := utils.ParseOptionalDate(end)
	if err != nil {
		return models.DateRange{}, utils.NewValidationError(endField, endField+" is not a valid date")
	}
	rng, err := models.NewDateRange(s, e)
	if err != nil {
		return models.DateRange{}, utils.NewValidationError(endField, endField+" must be after "+startField)
	}
	return rng, nil
}

func badRequest(code, field, message string, sentinel error) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       code,
		Field:      field,
		Message:    message,
		Err:        sentinel,
	}
}

// publish hands ev to the publisher after commit. Failures are logged only.
func publish(ctx context.Context, p events.Publisher, ev events.BookingEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), ev); err != nil {
		utils.Logger.WithError(err).WithFields(logrus.Fields{
			"event_id": ev.ID,
			"type":     ev.Type,
		}).Warn("failed to publish booking event")
	}
}
