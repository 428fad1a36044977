package party

import (
	"context"

	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain"
)

// Repository extends catalog CRUD with the debt ledger operation.
type Repository interface {
	domain.CatalogRepository[*Party]

	// AdjustDebt atomically adds delta to the party's total_debt and
	// returns the new balance.
	AdjustDebt(ctx context.Context, partyID id.ID, delta types.MinorUnits) (types.MinorUnits, error)

	// ListSuppliers returns supplier parties only.
	ListSuppliers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error)
}
