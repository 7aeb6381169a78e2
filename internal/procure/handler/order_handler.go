package handler

import (
	"github.com/em591991/gse-inventory/internal/procure/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler purchase order read endpoints
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List purchase order list
// GET /api/v1/purchase-orders?vendor_id=xxx&rfq_id=xxx&status=xxx&search=xxx
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"vendor_id": c.Query("vendor_id"),
		"rfq_id":    c.Query("rfq_id"),
		"status":    c.Query("status"),
		"search":    c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list purchase orders: "+err.Error())
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

// Get purchase order detail
// GET /api/v1/purchase-orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "purchase order not found")
		return
	}
	Success(c, po)
}
