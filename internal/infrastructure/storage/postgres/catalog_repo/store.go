package catalog_repo

import (
	"restock/internal/domain"
	"restock/internal/domain/catalogs/store"
	"restock/internal/infrastructure/storage/postgres"
)

// StoreRepo persists the store catalog in cat_stores.
type StoreRepo struct {
	*BaseCatalogRepo[*store.Store]
}

// NewStoreRepo creates the store repository.
func NewStoreRepo(txManager *postgres.TxManager) *StoreRepo {
	return &StoreRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_stores",
			postgres.ExtractDBColumns[store.Store](),
			func() *store.Store { return &store.Store{} },
		),
	}
}

var _ domain.CatalogRepository[*store.Store] = (*StoreRepo)(nil)
