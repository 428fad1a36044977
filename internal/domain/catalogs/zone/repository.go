package zone

import (
	"context"

	"restock/internal/core/id"
	"restock/internal/domain"
)

// Repository extends catalog CRUD with store-scoped lookups.
type Repository interface {
	domain.CatalogRepository[*Zone]

	// ListByStore returns all active zones of a store.
	ListByStore(ctx context.Context, storeID id.ID) ([]*Zone, error)
}

// Directory answers zone-ownership questions for the import workflow.
type Directory struct {
	repo Repository
}

// NewDirectory creates a zone directory over the repository.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// ZoneIDsForStore returns the set of zone IDs belonging to a store.
func (d *Directory) ZoneIDsForStore(ctx context.Context, storeID id.ID) (map[id.ID]struct{}, error) {
	zones, err := d.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	set := make(map[id.ID]struct{}, len(zones))
	for _, z := range zones {
		set[z.ID] = struct{}{}
	}
	return set, nil
}
