package controllers

import (
	"net/http"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/services"
	"github.com/MikyMack/TranshaStays/backend/shared/go-middleware"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/gorilla/mux"
)

// BookingController serves one inventory kind's booking routes. The three
// kinds share every verb except create.
type BookingController struct {
	bookings *services.BookingService
	kind     models.InventoryKind
	audit    Auditor
}

func NewBookingController(bs *services.BookingService, kind models.InventoryKind, auditor Auditor) *BookingController {
	return &BookingController{bookings: bs, kind: kind, audit: auditor}
}

// POST /api/v1/{kind}-booking
func (c *BookingController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var (
		b   *models.Booking
		err error
	)
	switch c.kind {
	case models.InventoryApartment:
		var req dtos.CreateApartmentBookingRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		b, err = c.bookings.CreateApartmentBooking(r.Context(), req)
	case models.InventoryResort:
		var req dtos.CreateResortBookingRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		b, err = c.bookings.CreateResortBooking(r.Context(), req)
	case models.InventoryPG:
		var req dtos.CreatePGBookingRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		b, err = c.bookings.CreatePGBooking(r.Context(), req)
	}
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.Logger.WithField("booking_id", b.ID).WithField("kind", c.kind).Info("Booking created")
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgBookingCreated, b)
}

// GET /api/v1/{kind}-booking?status=&propertyId=
func (c *BookingController) ListHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := c.bookings.ListBookings(r.Context(), c.kind, dtos.ListBookingsQuery{
		Status:     q.Get("status"),
		PropertyID: q.Get("propertyId"),
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgBookingsFetched, len(list), list)
}

// GET /api/v1/{kind}-booking/{id}
func (c *BookingController) GetHandler(w http.ResponseWriter, r *http.Request) {
	b, err := c.bookings.GetBooking(r.Context(), c.kind, mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgBookingFetched, b)
}

// PUT /api/v1/{kind}-booking/{id}/cancel
func (c *BookingController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	b, err := c.bookings.CancelBooking(r.Context(), c.kind, mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgBookingCancelled, b)
}

// PUT /api/v1/{kind}-booking/{id}/status (admin)
func (c *BookingController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateBookingStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	b, err := c.bookings.UpdateStatus(r.Context(), c.kind, mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	adminID, _ := middleware.AdminID(r.Context())
	utils.Logger.WithField("booking_id", b.ID).WithField("admin_id", adminID).
		Infof("Booking status set to %s / %s", b.BookingStatus, b.PaymentStatus)
	audit(r, c.audit, models.AuditUpdate, models.TargetBooking, b.ID.String(), b)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgBookingUpdated, b)
}

// DELETE /api/v1/{kind}-booking/{id} (admin)
func (c *BookingController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	c.delete(w, r, mux.Vars(r)["id"])
}

// DELETE /api/v1/{kind}-booking with {"id"} or {"bookingId"} in the body (admin)
func (c *BookingController) DeleteByBodyHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.DeleteByBodyRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	c.delete(w, r, req.EffectiveID())
}

func (c *BookingController) delete(w http.ResponseWriter, r *http.Request, id string) {
	b, err := c.bookings.DeleteBooking(r.Context(), c.kind, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	adminID, _ := middleware.AdminID(r.Context())
	utils.Logger.WithField("booking_id", b.ID).WithField("admin_id", adminID).Info("Booking deleted")
	audit(r, c.audit, models.AuditDelete, models.TargetBooking, b.ID.String(), b)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgBookingDeleted, b)
}
