package handler

import (
	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/gin-gonic/gin"
)

// ActivityHandler activity trail endpoint
type ActivityHandler struct {
	repo *repository.ActivityLogRepository
}

func NewActivityHandler(repo *repository.ActivityLogRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// ListByEntity activity trail for one entity
// GET /api/v1/activities/:entityType/:entityId
func (h *ActivityHandler) ListByEntity(c *gin.Context) {
	page, pageSize := GetPagination(c)

	items, total, err := h.repo.FindByEntity(c.Request.Context(), c.Param("entityType"), c.Param("entityId"), page, pageSize)
	if err != nil {
		InternalError(c, "failed to list activities: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}
