package stocktake

import (
	"context"

	"restock/internal/core/id"
	"restock/internal/core/types"
)

// Repository defines access to stocktake surplus data.
type Repository interface {
	// GetSurplus returns the surplus slice of a stocktake.
	GetSurplus(ctx context.Context, stocktakeID id.ID) (*Surplus, error)

	// IsBalanced reports whether the stocktake was already reconciled.
	IsBalanced(ctx context.Context, stocktakeID id.ID) (bool, error)

	// MarkBalanced flags the stocktake as reconciled so repeat
	// invocations are distinguishable.
	MarkBalanced(ctx context.Context, stocktakeID id.ID) error
}

// BatchUpdater tops up batch remaining quantities.
type BatchUpdater interface {
	AddToRemain(ctx context.Context, batchID id.ID, delta types.Quantity) (types.Quantity, error)
}
