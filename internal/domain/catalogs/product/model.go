// Package product provides the Product catalog.
package product

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/units"
)

// Product represents a sellable good.
type Product struct {
	entity.BaseCatalog

	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// BaseUnit is the canonical unit all stock and pricing use
	BaseUnit units.Unit `db:"base_unit" json:"baseUnit"`

	// Default per-base-unit prices, in minor units
	ImportPrice types.MinorUnits `db:"import_price" json:"importPrice"`
	SalePrice   types.MinorUnits `db:"sale_price" json:"salePrice"`

	Barcode string `db:"barcode" json:"barcode,omitempty"`
}

// NewProduct creates a new product priced in pieces.
func NewProduct(name string) *Product {
	return &Product{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
		BaseUnit:    units.Piece,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.ImportPrice < 0 || p.SalePrice < 0 {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "importPrice")
	}
	return nil
}
