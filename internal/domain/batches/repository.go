package batches

import (
	"context"

	"restock/internal/core/id"
	"restock/internal/core/types"
)

// Repository defines persistence operations for stock batches.
type Repository interface {
	// Create inserts a new batch
	Create(ctx context.Context, batch *Batch) error

	// GetByID retrieves a batch
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)

	// AddToRemain atomically adds delta to the batch's remaining
	// quantity and returns the new value.
	AddToRemain(ctx context.Context, batchID id.ID, delta types.Quantity) (types.Quantity, error)

	// ListByProduct returns batches of a product in a store, oldest first.
	ListByProduct(ctx context.Context, storeID, productID id.ID) ([]*Batch, error)

	// ListByImport returns batches created by an import transaction.
	ListByImport(ctx context.Context, importID id.ID) ([]*Batch, error)
}
