package handler

import (
	"errors"
	"strconv"

	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/em591991/gse-inventory/internal/procure/service"
	"github.com/gin-gonic/gin"
)

// Handlers procurement handler set
type Handlers struct {
	Vendor        *VendorHandler
	Item          *ItemHandler
	RFQ           *RFQHandler
	Replenishment *ReplenishmentHandler
	Order         *OrderHandler
	Dashboard     *DashboardHandler
	Activity      *ActivityHandler
}

// NewHandlers creates the procurement handler set
func NewHandlers(
	vendorSvc *service.VendorService,
	itemSvc *service.ItemService,
	rfqSvc *service.RFQService,
	aggregatorSvc *service.AggregatorService,
	exportSvc *service.ExportService,
	resolverSvc *service.ResolverService,
	orderSvc *service.OrderService,
	dashboardSvc *service.DashboardService,
	activityRepo *repository.ActivityLogRepository,
) *Handlers {
	return &Handlers{
		Vendor:        NewVendorHandler(vendorSvc),
		Item:          NewItemHandler(itemSvc),
		RFQ:           NewRFQHandler(rfqSvc, aggregatorSvc, exportSvc),
		Replenishment: NewReplenishmentHandler(resolverSvc),
		Order:         NewOrderHandler(orderSvc),
		Dashboard:     NewDashboardHandler(dashboardSvc),
		Activity:      NewActivityHandler(activityRepo),
	}
}

// === Response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

// RespondError maps service error types onto the response envelope
func RespondError(c *gin.Context, err error) {
	var stateErr *service.InvalidStateError
	var selErr *service.InvalidSelectionError
	var valErr *service.ValidationError
	var downErr *service.DownstreamError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.As(err, &valErr):
		BadRequest(c, valErr.Error())
	case errors.As(err, &stateErr):
		Conflict(c, stateErr.Error())
	case errors.As(err, &selErr):
		BadRequest(c, selErr.Error())
	case errors.As(err, &downErr):
		Error(c, 50200, downErr.Error())
	default:
		InternalError(c, err.Error())
	}
}
