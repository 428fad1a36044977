// Package batches tracks on-hand stock batches. A batch is a quantity of
// one product received on a specific date at a specific price, with its
// own remaining quantity and zone placement.
package batches

import (
	"context"
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
	"restock/internal/core/types"
)

// Batch is one received lot of a product. Quantities are in base units.
type Batch struct {
	entity.BaseEntity

	ProductID id.ID `db:"product_id" json:"productId"`
	StoreID   id.ID `db:"store_id" json:"storeId"`

	// Origin import transaction and line
	ImportID id.ID `db:"import_id" json:"importId"`
	LineID   id.ID `db:"line_id" json:"lineId"`

	// Per-base-unit prices frozen at receipt time
	ImportPrice types.MinorUnits `db:"import_price" json:"importPrice"`
	SalePrice   types.MinorUnits `db:"sale_price" json:"salePrice"`

	ReceivedAt time.Time  `db:"received_at" json:"receivedAt"`
	ExpireDate *time.Time `db:"expire_date" json:"expireDate,omitempty"`

	InitialQuantity types.Quantity `db:"initial_quantity" json:"initialQuantity"`
	RemainQuantity  types.Quantity `db:"remain_quantity" json:"remainQuantity"`

	// ZoneIDs is where the batch is placed; may span several zones
	ZoneIDs []id.ID `db:"zone_ids" json:"zoneIds"`
}

// Validate implements entity.Validatable.
func (b *Batch) Validate(ctx context.Context) error {
	if id.IsNil(b.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if id.IsNil(b.StoreID) {
		return apperror.NewValidation("store is required").
			WithDetail("field", "storeId")
	}
	if b.InitialQuantity <= 0 {
		return apperror.NewValidation("initial quantity must be positive").
			WithDetail("field", "initialQuantity")
	}
	if b.RemainQuantity < 0 {
		return apperror.NewValidation("remaining quantity must not be negative").
			WithDetail("field", "remainQuantity")
	}
	return nil
}
