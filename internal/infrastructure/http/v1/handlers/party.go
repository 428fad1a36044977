package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restock/internal/domain"
	"restock/internal/domain/party"
	"restock/internal/infrastructure/http/v1/dto"
)

// PartyHandler handles HTTP requests for the party catalog.
type PartyHandler struct {
	*CatalogHandler[*party.Party, dto.CreatePartyRequest, dto.UpdatePartyRequest]
	repo party.Repository
}

// NewPartyHandler creates a new party handler.
func NewPartyHandler(base *BaseHandler, service *domain.CatalogService[*party.Party], repo party.Repository) *PartyHandler {
	cfg := CatalogHandlerConfig[*party.Party, dto.CreatePartyRequest, dto.UpdatePartyRequest]{
		Service:    service,
		EntityName: "party",
		MapCreateDTO: func(req dto.CreatePartyRequest) (*party.Party, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdatePartyRequest, existing *party.Party) (*party.Party, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},
		MapToDTO: func(p *party.Party) any {
			return dto.FromParty(p)
		},
	}

	return &PartyHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
		repo:           repo,
	}
}

// ListSuppliers handles GET /catalog/parties/suppliers.
func (h *PartyHandler) ListSuppliers(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.repo.ListSuppliers(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, p := range result.Items {
		items[i] = dto.FromParty(p)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// RegisterRoutes registers party routes.
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/suppliers", h.ListSuppliers)
	h.CatalogHandler.RegisterRoutes(rg)
}
