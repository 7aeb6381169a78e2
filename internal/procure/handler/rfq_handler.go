package handler

import (
	"fmt"

	"github.com/em591991/gse-inventory/internal/procure/service"
	"github.com/gin-gonic/gin"
)

// RFQHandler RFQ lifecycle and quote endpoints
type RFQHandler struct {
	svc        *service.RFQService
	aggregator *service.AggregatorService
	export     *service.ExportService
}

func NewRFQHandler(svc *service.RFQService, aggregator *service.AggregatorService, export *service.ExportService) *RFQHandler {
	return &RFQHandler{svc: svc, aggregator: aggregator, export: export}
}

// List RFQ list
// GET /api/v1/rfqs?status=xxx&search=xxx
func (h *RFQHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status": c.Query("status"),
		"search": c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list rfqs: "+err.Error())
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

// Get RFQ detail
// GET /api/v1/rfqs/:id
func (h *RFQHandler) Get(c *gin.Context) {
	rfq, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "rfq not found")
		return
	}
	Success(c, rfq)
}

// Create create RFQ
// POST /api/v1/rfqs
func (h *RFQHandler) Create(c *gin.Context) {
	var req service.CreateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	rfq, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, rfq)
}

// Update update draft RFQ
// PUT /api/v1/rfqs/:id
func (h *RFQHandler) Update(c *gin.Context) {
	var req service.UpdateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	rfq, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, rfq)
}

// Delete delete draft RFQ
// DELETE /api/v1/rfqs/:id
func (h *RFQHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetUserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// Send issue RFQ to vendors
// POST /api/v1/rfqs/:id/send
func (h *RFQHandler) Send(c *gin.Context) {
	rfq, err := h.svc.Send(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, rfq)
}

// Cancel cancel RFQ
// POST /api/v1/rfqs/:id/cancel
func (h *RFQHandler) Cancel(c *gin.Context) {
	rfq, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, rfq)
}

// CloseQuoting ends the quoting window, expiring unresponsive vendors
// POST /api/v1/rfqs/:id/close-quoting
func (h *RFQHandler) CloseQuoting(c *gin.Context) {
	rfq, err := h.svc.CloseQuoting(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, rfq)
}

// ListQuotes flat quote list for an RFQ
// GET /api/v1/rfqs/:id/quotes
func (h *RFQHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.svc.ListQuotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, quotes)
}

// SubmitQuotes record one vendor's quotes
// POST /api/v1/rfqs/:id/quotes
func (h *RFQHandler) SubmitQuotes(c *gin.Context) {
	var req service.SubmitQuotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quotes, err := h.svc.SubmitQuotes(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, quotes)
}

// ImportQuotes bulk quote import from a CSV upload
// POST /api/v1/rfqs/:id/quotes/import (multipart: file, vendor_id)
func (h *RFQHandler) ImportQuotes(c *gin.Context) {
	vendorID := c.PostForm("vendor_id")
	if vendorID == "" {
		BadRequest(c, "vendor_id is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required: "+err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "failed to open upload: "+err.Error())
		return
	}
	defer file.Close()

	result, err := h.svc.ImportQuotesCSV(c.Request.Context(), c.Param("id"), vendorID, GetUserID(c), file)
	if err != nil {
		RespondError(c, err)
		return
	}

	if len(result.Errors) > 0 {
		c.JSON(207, Response{
			Code:    0,
			Message: fmt.Sprintf("imported %d rows with %d errors", result.Imported, len(result.Errors)),
			Data:    result,
		})
		return
	}
	Created(c, result)
}

// QuoteTemplate CSV template pre-filled with the RFQ's lines
// GET /api/v1/rfqs/:id/quotes/template
func (h *RFQHandler) QuoteTemplate(c *gin.Context) {
	data, err := h.svc.QuoteTemplateCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="quote-template.csv"`)
	c.Data(200, "text/csv", data)
}

// ReplenishmentView per-line quote aggregation
// GET /api/v1/rfqs/:id/replenishment-view
func (h *RFQHandler) ReplenishmentView(c *gin.Context) {
	view, err := h.aggregator.BuildReplenishmentView(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, view)
}

// ExportComparison quote comparison workbook
// GET /api/v1/rfqs/:id/comparison/export
func (h *RFQHandler) ExportComparison(c *gin.Context) {
	data, filename, err := h.export.ComparisonXLSX(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// DeclineVendor record a vendor declining to quote
// POST /api/v1/rfqs/:id/vendors/:vendorId/decline
func (h *RFQHandler) DeclineVendor(c *gin.Context) {
	link, err := h.svc.DeclineVendor(c.Request.Context(), c.Param("id"), c.Param("vendorId"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, link)
}
