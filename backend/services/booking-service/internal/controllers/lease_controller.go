package controllers

import (
	"net/http"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/services"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/gorilla/mux"
)

type LeaseController struct {
	leases *services.LeaseService
	audit  Auditor
}

func NewLeaseController(ls *services.LeaseService, auditor Auditor) *LeaseController {
	return &LeaseController{leases: ls, audit: auditor}
}

// POST /api/v1/pg/leases
func (c *LeaseController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateLeaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	l, err := c.leases.CreateLease(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgLeaseCreated, l)
}

// GET /api/v1/pg/leases?status=&propertyId=&tenantId=&bedId=
func (c *LeaseController) ListHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := c.leases.ListLeases(r.Context(), dtos.ListLeasesQuery{
		Status:     q.Get("status"),
		PropertyID: q.Get("propertyId"),
		TenantID:   q.Get("tenantId"),
		BedID:      q.Get("bedId"),
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgLeasesFetched, len(list), list)
}

// GET /api/v1/pg/leases/{id}
func (c *LeaseController) GetHandler(w http.ResponseWriter, r *http.Request) {
	l, err := c.leases.GetLease(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgLeaseFetched, l)
}

// PUT /api/v1/pg/leases/{id}/cancel
func (c *LeaseController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	l, err := c.leases.CancelLease(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgLeaseUpdated, l)
}

// PUT /api/v1/pg/leases/{id}/status (admin)
func (c *LeaseController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateLeaseStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	l, err := c.leases.UpdateLeaseStatus(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetLease, l.ID.String(), l)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgLeaseUpdated, l)
}

// POST /api/v1/pg/leases/{id}/payments
func (c *LeaseController) RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RecordPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	l, err := c.leases.RecordPayment(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgPaymentRecorded, l)
}
