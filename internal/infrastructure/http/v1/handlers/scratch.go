package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restock/internal/domain/imports"
	"restock/internal/domain/scratch"
	"restock/internal/infrastructure/http/v1/dto"
)

// ScratchHandler manages the recoverable draft slot. The slot holds one
// in-flight draft at a time and expires on its TTL.
type ScratchHandler struct {
	*BaseHandler
	store scratch.Store
	calc  *imports.Calculator
}

// NewScratchHandler creates a new scratch handler.
func NewScratchHandler(base *BaseHandler, store scratch.Store, calc *imports.Calculator) *ScratchHandler {
	return &ScratchHandler{BaseHandler: base, store: store, calc: calc}
}

// Save handles PUT /scratch - stash the current draft state.
func (h *ScratchHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateImportTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity(h.calc)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.store.Save(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "draft stashed")
}

// Load handles GET /scratch - recover the stashed draft, if any.
func (h *ScratchHandler) Load(c *gin.Context) {
	ctx := c.Request.Context()

	snapshot, err := h.store.Load(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	if snapshot == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.FromSnapshot(snapshot))
}

// Clear handles DELETE /scratch.
func (h *ScratchHandler) Clear(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers scratch routes.
func (h *ScratchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("", h.Save)
	rg.GET("", h.Load)
	rg.DELETE("", h.Clear)
}
