// Package store provides the Store catalog.
package store

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
)

// Store represents a retail location.
type Store struct {
	entity.BaseCatalog

	Code    string `db:"code" json:"code"`
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
}

// NewStore creates a new store.
func NewStore(name string) *Store {
	return &Store{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
	}
}

// Validate implements entity.Validatable.
func (s *Store) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
