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

// PropertyController serves the property routes of one inventory kind.
type PropertyController struct {
	catalog *services.CatalogService
	kind    models.InventoryKind
	audit   Auditor
}

func NewPropertyController(cs *services.CatalogService, kind models.InventoryKind, auditor Auditor) *PropertyController {
	return &PropertyController{catalog: cs, kind: kind, audit: auditor}
}

func (c *PropertyController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.PropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.catalog.CreateProperty(r.Context(), c.kind, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditCreate, models.TargetProperty, p.ID.String(), p)
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgPropertySaved, p)
}

// ListHandler accepts ?city=&active=&featured=
func (c *PropertyController) ListHandler(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	featured, err := queryBool(r, "featured")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.catalog.ListProperties(r.Context(), c.kind, dtos.ListPropertiesQuery{
		City:     r.URL.Query().Get("city"),
		Active:   active,
		Featured: featured,
	})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgPropertiesFound, len(list), list)
}

// GetHandler resolves {id} as an id or a slug.
func (c *PropertyController) GetHandler(w http.ResponseWriter, r *http.Request) {
	p, err := c.catalog.GetProperty(r.Context(), c.kind, mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, constants.MsgPropertyFetched, p)
}

func (c *PropertyController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.PropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.catalog.UpdateProperty(r.Context(), c.kind, mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetProperty, p.ID.String(), p)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgPropertySaved, p)
}

func (c *PropertyController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := c.catalog.DeleteProperty(r.Context(), c.kind, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditDelete, models.TargetProperty, id, nil)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgPropertyDeleted, nil)
}

func (c *PropertyController) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	p, err := c.catalog.ToggleProperty(r.Context(), c.kind, mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetProperty, p.ID.String(), p)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgPropertyToggled, p)
}
