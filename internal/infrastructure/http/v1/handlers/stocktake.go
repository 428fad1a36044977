package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/domain/stocktake"
	"restock/internal/infrastructure/http/v1/dto"
)

// StocktakeHandler exposes the stocktake balance flow.
type StocktakeHandler struct {
	*BaseHandler
	reconciler *stocktake.Reconciler
}

// NewStocktakeHandler creates a new stocktake handler.
func NewStocktakeHandler(base *BaseHandler, reconciler *stocktake.Reconciler) *StocktakeHandler {
	return &StocktakeHandler{BaseHandler: base, reconciler: reconciler}
}

// BalanceDraft handles POST /stocktakes/:id/balance-draft.
// Returns an unsaved balance-import draft built from the surplus.
func (h *StocktakeHandler) BalanceDraft(c *gin.Context) {
	ctx := c.Request.Context()

	stocktakeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.BalanceDraftRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	var staffID id.ID
	if req.StaffID != "" {
		staffID, err = id.Parse(req.StaffID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id format").WithDetail("field", "staffId"))
			return
		}
	}

	draft, err := h.reconciler.BuildDraft(ctx, stocktakeID, staffID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromImportTransaction(draft))
}

// ApplyBalance handles POST /stocktakes/:id/balance.
// Applies surplus quantities to their batches. Partial failure is a 200
// with per-item results, not an error.
func (h *StocktakeHandler) ApplyBalance(c *gin.Context) {
	ctx := c.Request.Context()

	stocktakeID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.BalanceApplyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines, err := req.ToLines()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.reconciler.ApplyBalance(ctx, stocktakeID, lines)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBalanceReport(report))
}

// RegisterRoutes registers stocktake balance routes.
func (h *StocktakeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/balance-draft", h.BalanceDraft)
	rg.POST("/:id/balance", h.ApplyBalance)
}
