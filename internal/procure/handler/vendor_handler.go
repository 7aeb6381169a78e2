package handler

import (
	"github.com/em591991/gse-inventory/internal/procure/service"
	"github.com/gin-gonic/gin"
)

// VendorHandler vendor master data endpoints
type VendorHandler struct {
	svc *service.VendorService
}

func NewVendorHandler(svc *service.VendorService) *VendorHandler {
	return &VendorHandler{svc: svc}
}

// List vendor list
// GET /api/v1/vendors?search=xxx&status=xxx
func (h *VendorHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"status": c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list vendors: "+err.Error())
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

// Get vendor detail
// GET /api/v1/vendors/:id
func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "vendor not found")
		return
	}
	Success(c, vendor)
}

// Create create vendor
// POST /api/v1/vendors
func (h *VendorHandler) Create(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	vendor, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "failed to create vendor: "+err.Error())
		return
	}
	Created(c, vendor)
}

// Update update vendor
// PUT /api/v1/vendors/:id
func (h *VendorHandler) Update(c *gin.Context) {
	var req service.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	vendor, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, vendor)
}

// ListContacts vendor contact list
// GET /api/v1/vendors/:id/contacts
func (h *VendorHandler) ListContacts(c *gin.Context) {
	contacts, err := h.svc.ListContacts(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, contacts)
}

// AddContact add vendor contact
// POST /api/v1/vendors/:id/contacts
func (h *VendorHandler) AddContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	contact, err := h.svc.AddContact(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, contact)
}

// RemoveContact delete vendor contact
// DELETE /api/v1/vendors/:id/contacts/:contactId
func (h *VendorHandler) RemoveContact(c *gin.Context) {
	if err := h.svc.RemoveContact(c.Request.Context(), c.Param("id"), c.Param("contactId")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}
