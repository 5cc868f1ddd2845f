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

// UnitController covers units of every kind plus the PG floor and tenant
// registries, all of which live in the catalog.
type UnitController struct {
	catalog *services.CatalogService
	audit   Auditor
}

func NewUnitController(cs *services.CatalogService, auditor Auditor) *UnitController {
	return &UnitController{catalog: cs, audit: auditor}
}

// POST /api/v1/properties/{id}/units
func (c *UnitController) CreateUnitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	units, err := c.catalog.CreateUnit(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	for _, u := range units {
		audit(r, c.audit, models.AuditCreate, models.TargetUnit, u.ID.String(), u)
	}
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgUnitSaved, units)
}

// GET /api/v1/properties/{id}/units?kind=
func (c *UnitController) ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
	units, err := c.catalog.ListUnits(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("kind"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgUnitsFetched, len(units), units)
}

// PUT /api/v1/units/{unitId}
func (c *UnitController) UpdateUnitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.catalog.UpdateUnit(r.Context(), mux.Vars(r)["unitId"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetUnit, u.ID.String(), u)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgUnitSaved, u)
}

// DELETE /api/v1/units/{unitId}
func (c *UnitController) DeleteUnitHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["unitId"]
	if err := c.catalog.DeleteUnit(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditDelete, models.TargetUnit, id, nil)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgUnitDeleted, nil)
}

// PATCH /api/v1/units/{unitId}/toggle
func (c *UnitController) ToggleUnitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ToggleRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	u, err := c.catalog.ToggleUnit(r.Context(), mux.Vars(r)["unitId"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetUnit, u.ID.String(), u)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgUnitSaved, u)
}

// PATCH /api/v1/premium-apartments/{id}/availability
func (c *UnitController) ApartmentAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ApartmentAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.catalog.SetApartmentAvailability(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetUnit, u.ID.String(), u)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgUnitSaved, u)
}

/* ---------- PG floors ---------- */

// POST /api/v1/pg/properties/{id}/floors
func (c *UnitController) CreateFloorHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.FloorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	f, err := c.catalog.CreateFloor(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditCreate, models.TargetFloor, f.ID.String(), f)
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgFloorSaved, f)
}

// GET /api/v1/pg/properties/{id}/floors
func (c *UnitController) ListFloorsHandler(w http.ResponseWriter, r *http.Request) {
	floors, err := c.catalog.ListFloors(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgFloorsFetched, len(floors), floors)
}

// PUT /api/v1/pg/floors/{floorId}
func (c *UnitController) UpdateFloorHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.FloorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	f, err := c.catalog.UpdateFloor(r.Context(), mux.Vars(r)["floorId"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetFloor, f.ID.String(), f)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgFloorSaved, f)
}

// DELETE /api/v1/pg/floors/{floorId}
func (c *UnitController) DeleteFloorHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["floorId"]
	if err := c.catalog.DeleteFloor(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditDelete, models.TargetFloor, id, nil)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgFloorDeleted, nil)
}

/* ---------- PG tenants ---------- */

// POST /api/v1/pg/tenants
func (c *UnitController) CreateTenantHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.TenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	t, err := c.catalog.CreateTenant(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditCreate, models.TargetTenant, t.ID.String(), t)
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgTenantSaved, t)
}

// GET /api/v1/pg/tenants
func (c *UnitController) ListTenantsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.ListTenants(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgTenantsFetched, len(list), list)
}

// GET /api/v1/pg/tenants/{id}
func (c *UnitController) GetTenantHandler(w http.ResponseWriter, r *http.Request) {
	t, err := c.catalog.GetTenant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgTenantFetched, t)
}
