package controllers

import (
	"net/http"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/services"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
)

type AvailabilityController struct {
	availability *services.AvailabilityService
}

func NewAvailabilityController(as *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{availability: as}
}

// POST /api/v1/premium-apartments/availability
func (c *AvailabilityController) ApartmentHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.StayAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.availability.ApartmentAvailability(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgAvailability, resp)
}

// POST /api/v1/resorts/availability
func (c *AvailabilityController) ResortHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.StayAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.availability.ResortAvailability(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgAvailability, resp)
}

// POST /api/v1/pg/availability
func (c *AvailabilityController) PGHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.PGAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.availability.PGAvailability(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgAvailability, resp)
}
