package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/domain"
	"restock/internal/domain/imports"
	"restock/internal/domain/scratch"
	"restock/internal/infrastructure/http/v1/dto"
	"restock/pkg/logger"
)

// ImportTransactionHandler handles HTTP requests for import transactions.
type ImportTransactionHandler struct {
	*BaseHandler
	service *imports.Service
	scratch scratch.Store
}

// NewImportTransactionHandler creates a new import transaction handler.
// The scratch store is optional; when present, the scratch slot is
// cleared once a draft is durably persisted or finalized.
func NewImportTransactionHandler(base *BaseHandler, service *imports.Service, scratchStore scratch.Store) *ImportTransactionHandler {
	return &ImportTransactionHandler{
		BaseHandler: base,
		service:     service,
		scratch:     scratchStore,
	}
}

// Create handles POST /document/import-transaction.
func (h *ImportTransactionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateImportTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity(h.service.Calculator())
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}
	h.clearScratch(c)

	c.JSON(http.StatusCreated, dto.FromImportTransaction(doc))
}

// Update handles PUT /document/import-transaction/:id - save draft edits.
func (h *ImportTransactionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateImportTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc, h.service.Calculator()); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.SaveDraft(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}
	h.clearScratch(c)

	c.JSON(http.StatusOK, dto.FromImportTransaction(doc))
}

// Get handles GET /document/import-transaction/:id.
func (h *ImportTransactionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromImportTransaction(doc))
}

// List handles GET /document/import-transaction with filtering.
func (h *ImportTransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := imports.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if status := c.Query("status"); status != "" {
		parsed := imports.Status(status)
		if !parsed.IsValid() {
			h.Error(c, apperror.NewValidation("unknown status").WithDetail("status", status))
			return
		}
		filter.Status = &parsed
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
	if balance := c.Query("balance"); balance != "" {
		val := balance == "true"
		filter.Balance = &val
	}
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

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromImportTransaction(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Submit handles POST /document/import-transaction/:id/submit.
// Body is optional: when present it carries last-minute draft edits that
// are persisted together with the status change.
func (h *ImportTransactionHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if c.Request.ContentLength > 0 {
		var req dto.UpdateImportTransactionRequest
		if !h.BindJSON(c, &req) {
			return
		}
		if err := req.ApplyTo(doc, h.service.Calculator()); err != nil {
			h.Error(c, err)
			return
		}
	}

	if err := h.service.SubmitForApproval(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}
	h.clearScratch(c)

	c.JSON(http.StatusOK, dto.FromImportTransaction(doc))
}

// Complete handles POST /document/import-transaction/:id/complete.
// On a settlement failure the transaction is already COMPLETE; the
// COMPLETED_UNSETTLED error carries the ids operators need.
func (h *ImportTransactionHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.Complete(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.clearScratch(c)

	c.JSON(http.StatusOK, dto.FromImportTransaction(doc))
}

// Cancel handles POST /document/import-transaction/:id/cancel.
func (h *ImportTransactionHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.Cancel(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.clearScratch(c)

	c.JSON(http.StatusOK, dto.FromImportTransaction(doc))
}

func (h *ImportTransactionHandler) clearScratch(c *gin.Context) {
	if h.scratch == nil {
		return
	}
	if err := h.scratch.Clear(c.Request.Context()); err != nil {
		logger.Warn(c.Request.Context(), "failed to clear scratch slot", "error", err)
	}
}

// RegisterRoutes registers import transaction routes.
func (h *ImportTransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/submit", h.Submit)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
}
