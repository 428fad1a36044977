package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"restock/internal/core/id"
	"restock/internal/domain/catalogs/zone"
	"restock/internal/infrastructure/storage/postgres"
)

// ZoneRepo persists the storage zone catalog in cat_zones.
type ZoneRepo struct {
	*BaseCatalogRepo[*zone.Zone]
}

// NewZoneRepo creates the zone repository.
func NewZoneRepo(txManager *postgres.TxManager) *ZoneRepo {
	return &ZoneRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_zones",
			postgres.ExtractDBColumns[zone.Zone](),
			func() *zone.Zone { return &zone.Zone{} },
		),
	}
}

// ListByStore returns all active zones of a store.
func (r *ZoneRepo) ListByStore(ctx context.Context, storeID id.ID) ([]*zone.Zone, error) {
	q := r.Builder().
		Select("id", "code", "name", "store_id", "deletion_mark", "version").
		From("cat_zones").
		Where(squirrel.Eq{"store_id": storeID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	return r.FindAll(ctx, q)
}

var _ zone.Repository = (*ZoneRepo)(nil)
