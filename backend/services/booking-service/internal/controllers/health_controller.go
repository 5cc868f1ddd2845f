package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
)

const healthTimeout = 3 * time.Second

// Pinger is satisfied by *app.App.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController checks DB connectivity, and Redis when configured.
type HealthController struct {
	deps Pinger
}

func NewHealthController(deps Pinger) *HealthController {
	return &HealthController{deps: deps}
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := c.deps.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("booking-service dependency unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeServiceUnavailable, "Dependency unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
