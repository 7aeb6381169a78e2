package handler

import (
	"github.com/em591991/gse-inventory/internal/procure/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler procurement overview endpoint
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats procurement dashboard counters
// GET /api/v1/dashboard/procurement
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to load dashboard: "+err.Error())
		return
	}
	Success(c, stats)
}
