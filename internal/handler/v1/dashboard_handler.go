package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/chartwell-health/chartwell/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, summary)
}
