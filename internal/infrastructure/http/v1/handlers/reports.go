package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restock/internal/core/id"
	"restock/internal/domain/reports"
	"restock/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// PurchaseSummary handles GET /reports/purchases.
func (h *ReportsHandler) PurchaseSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var filter reports.PurchaseFilter
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}
	if supplierID := c.Query("supplierId"); supplierID != "" {
		if parsed, err := id.Parse(supplierID); err == nil {
			filter.SupplierID = &parsed
		}
	}
	if storeID := c.Query("storeId"); storeID != "" {
		if parsed, err := id.Parse(storeID); err == nil {
			filter.StoreID = &parsed
		}
	}

	rows, err := h.service.PurchaseSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PurchaseSummaryResponse{Rows: rows})
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/purchases", h.PurchaseSummary)
}
