package handler

import (
	"errors"

	"github.com/em591991/gse-inventory/internal/procure/service"
	"github.com/gin-gonic/gin"
)

// ReplenishmentHandler draft and finalize endpoints
type ReplenishmentHandler struct {
	svc *service.ResolverService
}

func NewReplenishmentHandler(svc *service.ResolverService) *ReplenishmentHandler {
	return &ReplenishmentHandler{svc: svc}
}

// List replenishment list
// GET /api/v1/replenishments?rfq_id=xxx&status=xxx
func (h *ReplenishmentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"rfq_id": c.Query("rfq_id"),
		"status": c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list replenishments: "+err.Error())
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

// Get replenishment detail
// GET /api/v1/replenishments/:id
func (h *ReplenishmentHandler) Get(c *gin.Context) {
	repl, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "replenishment not found")
		return
	}
	Success(c, repl)
}

// Create create a draft replenishment from a strategy or explicit selections
// POST /api/v1/replenishments
func (h *ReplenishmentHandler) Create(c *gin.Context) {
	var req service.CreateReplenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.CreateDraft(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, result)
}

// Finalize commit a draft into purchase orders
// POST /api/v1/replenishments/:id/finalize
func (h *ReplenishmentHandler) Finalize(c *gin.Context) {
	result, err := h.svc.Finalize(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		var partial *service.PartialCommitError
		if errors.As(err, &partial) {
			// Succeeded orders stand; the caller retries the draft
			c.JSON(502, Response{
				Code:    50200,
				Message: partial.Error(),
				Data:    partial,
			})
			return
		}
		RespondError(c, err)
		return
	}
	Success(c, result)
}
