package catalog_repo

import (
	"restock/internal/domain"
	"restock/internal/domain/catalogs/product"
	"restock/internal/infrastructure/storage/postgres"
)

// ProductRepo persists the product catalog in cat_products.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates the product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_products",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

var _ domain.CatalogRepository[*product.Product] = (*ProductRepo)(nil)

// CategoryRepo persists product categories in cat_categories.
type CategoryRepo struct {
	*BaseCatalogRepo[*product.Category]
}

// NewCategoryRepo creates the category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_categories",
			postgres.ExtractDBColumns[product.Category](),
			func() *product.Category { return &product.Category{} },
		),
	}
}

var _ domain.CatalogRepository[*product.Category] = (*CategoryRepo)(nil)
