// Package zone provides the storage Zone catalog. Zones are read-only
// reference data to the import workflow; a line item's zone set must all
// belong to the transaction's store.
package zone

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
)

// Zone is a named storage location within a store.
type Zone struct {
	entity.BaseCatalog

	Code    string `db:"code" json:"code"`
	Name    string `db:"name" json:"name"`
	StoreID id.ID  `db:"store_id" json:"storeId"`
}

// NewZone creates a new zone in a store.
func NewZone(storeID id.ID, name string) *Zone {
	return &Zone{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
		StoreID:     storeID,
	}
}

// Validate implements entity.Validatable.
func (z *Zone) Validate(ctx context.Context) error {
	if z.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(z.StoreID) {
		return apperror.NewValidation("store is required").
			WithDetail("field", "storeId")
	}
	return nil
}
