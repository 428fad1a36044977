package dto

import (
	"restock/internal/core/types"
	"restock/internal/domain/catalogs/product"
	"restock/internal/domain/catalogs/store"
	"restock/internal/domain/catalogs/zone"
	"restock/internal/domain/party"
	"restock/internal/domain/units"
)

// --- Product ---

// CreateProductRequest creates a product.
type CreateProductRequest struct {
	Code        string `json:"code,omitempty"`
	Name        string `json:"name" binding:"required"`
	CategoryID  string `json:"categoryId,omitempty"`
	BaseUnit    string `json:"baseUnit,omitempty"`
	ImportPrice int64  `json:"importPrice,omitempty"`
	SalePrice   int64  `json:"salePrice,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
}

// ToEntity converts the request to a domain product.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	p := product.NewProduct(r.Name)
	p.Code = r.Code
	p.ImportPrice = types.MinorUnits(r.ImportPrice)
	p.SalePrice = types.MinorUnits(r.SalePrice)
	p.Barcode = r.Barcode
	if r.BaseUnit != "" {
		p.BaseUnit = units.Unit(r.BaseUnit)
	}
	if r.CategoryID != "" {
		categoryID, err := parseID(r.CategoryID, "categoryId")
		if err != nil {
			return nil, err
		}
		p.CategoryID = categoryID
	}
	return p, nil
}

// UpdateProductRequest updates a product. Nil fields are kept.
type UpdateProductRequest struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty"`
	BaseUnit    *string `json:"baseUnit,omitempty"`
	ImportPrice *int64  `json:"importPrice,omitempty"`
	SalePrice   *int64  `json:"salePrice,omitempty"`
	Barcode     *string `json:"barcode,omitempty"`
}

// ApplyTo applies updates to an existing product.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.CategoryID != nil {
		categoryID, err := parseID(*r.CategoryID, "categoryId")
		if err != nil {
			return err
		}
		p.CategoryID = categoryID
	}
	if r.BaseUnit != nil {
		p.BaseUnit = units.Unit(*r.BaseUnit)
	}
	if r.ImportPrice != nil {
		p.ImportPrice = types.MinorUnits(*r.ImportPrice)
	}
	if r.SalePrice != nil {
		p.SalePrice = types.MinorUnits(*r.SalePrice)
	}
	if r.Barcode != nil {
		p.Barcode = *r.Barcode
	}
	return nil
}

// --- Category ---

// CreateCategoryRequest creates a product category.
type CreateCategoryRequest struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name" binding:"required"`
}

// ToEntity converts the request to a domain category.
func (r *CreateCategoryRequest) ToEntity() (*product.Category, error) {
	cat := product.NewCategory(r.Name)
	cat.Code = r.Code
	return cat, nil
}

// UpdateCategoryRequest updates a category.
type UpdateCategoryRequest struct {
	Code *string `json:"code,omitempty"`
	Name *string `json:"name,omitempty"`
}

// ApplyTo applies updates to an existing category.
func (r *UpdateCategoryRequest) ApplyTo(cat *product.Category) error {
	if r.Code != nil {
		cat.Code = *r.Code
	}
	if r.Name != nil {
		cat.Name = *r.Name
	}
	return nil
}

// --- Store ---

// CreateStoreRequest creates a store.
type CreateStoreRequest struct {
	Code    string `json:"code,omitempty"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address,omitempty"`
}

// ToEntity converts the request to a domain store.
func (r *CreateStoreRequest) ToEntity() (*store.Store, error) {
	s := store.NewStore(r.Name)
	s.Code = r.Code
	s.Address = r.Address
	return s, nil
}

// UpdateStoreRequest updates a store.
type UpdateStoreRequest struct {
	Code    *string `json:"code,omitempty"`
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ApplyTo applies updates to an existing store.
func (r *UpdateStoreRequest) ApplyTo(s *store.Store) error {
	if r.Code != nil {
		s.Code = *r.Code
	}
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
	return nil
}

// --- Zone ---

// CreateZoneRequest creates a storage zone within a store.
type CreateZoneRequest struct {
	Code    string `json:"code,omitempty"`
	Name    string `json:"name" binding:"required"`
	StoreID string `json:"storeId" binding:"required"`
}

// ToEntity converts the request to a domain zone.
func (r *CreateZoneRequest) ToEntity() (*zone.Zone, error) {
	storeID, err := parseID(r.StoreID, "storeId")
	if err != nil {
		return nil, err
	}
	z := zone.NewZone(storeID, r.Name)
	z.Code = r.Code
	return z, nil
}

// UpdateZoneRequest updates a zone.
type UpdateZoneRequest struct {
	Code    *string `json:"code,omitempty"`
	Name    *string `json:"name,omitempty"`
	StoreID *string `json:"storeId,omitempty"`
}

// ApplyTo applies updates to an existing zone.
func (r *UpdateZoneRequest) ApplyTo(z *zone.Zone) error {
	if r.Code != nil {
		z.Code = *r.Code
	}
	if r.Name != nil {
		z.Name = *r.Name
	}
	if r.StoreID != nil {
		storeID, err := parseID(*r.StoreID, "storeId")
		if err != nil {
			return err
		}
		z.StoreID = storeID
	}
	return nil
}

// --- Party ---

// CreatePartyRequest creates a party.
type CreatePartyRequest struct {
	Code       string `json:"code,omitempty"`
	Name       string `json:"name" binding:"required"`
	IsSupplier bool   `json:"isSupplier,omitempty"`
	IsCustomer bool   `json:"isCustomer,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

// ToEntity converts the request to a domain party.
func (r *CreatePartyRequest) ToEntity() (*party.Party, error) {
	p := party.NewParty(r.Name)
	p.Code = r.Code
	p.IsSupplier = r.IsSupplier
	p.IsCustomer = r.IsCustomer
	p.Phone = r.Phone
	p.Email = r.Email
	p.Address = r.Address
	return p, nil
}

// UpdatePartyRequest updates a party. TotalDebt is not settable here;
// the ledger is owned by the debt settlement service.
type UpdatePartyRequest struct {
	Code       *string `json:"code,omitempty"`
	Name       *string `json:"name,omitempty"`
	IsSupplier *bool   `json:"isSupplier,omitempty"`
	IsCustomer *bool   `json:"isCustomer,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	Address    *string `json:"address,omitempty"`
}

// ApplyTo applies updates to an existing party.
func (r *UpdatePartyRequest) ApplyTo(p *party.Party) error {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.IsSupplier != nil {
		p.IsSupplier = *r.IsSupplier
	}
	if r.IsCustomer != nil {
		p.IsCustomer = *r.IsCustomer
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Email != nil {
		p.Email = *r.Email
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	return nil
}

// PartyResponse exposes the party with its debt rendered as decimal money.
type PartyResponse struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	IsSupplier   bool        `json:"isSupplier"`
	IsCustomer   bool        `json:"isCustomer"`
	Phone        string      `json:"phone,omitempty"`
	Email        string      `json:"email,omitempty"`
	Address      string      `json:"address,omitempty"`
	TotalDebt    int64       `json:"totalDebt"`
	Debt         types.Money `json:"debt"`
	DeletionMark bool        `json:"deletionMark,omitempty"`
	Version      int         `json:"version"`
}

// FromParty converts a domain party to a response DTO.
func FromParty(p *party.Party) *PartyResponse {
	return &PartyResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		IsSupplier:   p.IsSupplier,
		IsCustomer:   p.IsCustomer,
		Phone:        p.Phone,
		Email:        p.Email,
		Address:      p.Address,
		TotalDebt:    int64(p.TotalDebt),
		Debt:         p.TotalDebt.ToMoney(),
		DeletionMark: p.DeletionMark,
		Version:      p.Version,
	}
}
