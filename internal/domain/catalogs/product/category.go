package product

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
)

// Category groups products for display and reporting.
type Category struct {
	entity.BaseCatalog

	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// NewCategory creates a new category.
func NewCategory(name string) *Category {
	return &Category{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
	}
}

// Validate implements entity.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
