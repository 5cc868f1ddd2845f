package controllers

import (
	"net/http"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/services"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/gorilla/mux"
)

type AuditController struct {
	audit *services.AuditService
}

func NewAuditController(as *services.AuditService) *AuditController {
	return &AuditController{audit: as}
}

// HistoryHandler => GET /api/v1/admin/audit/{id}
func (c *AuditController) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.audit.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgAuditFetched, len(list), list)
}
