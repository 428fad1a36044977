// Package party provides the Party catalog (suppliers, customers, staff)
// and the supplier debt ledger.
package party

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/types"
)

// Party represents a counterparty: supplier, customer, or both.
type Party struct {
	entity.BaseCatalog

	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	IsSupplier bool `db:"is_supplier" json:"isSupplier"`
	IsCustomer bool `db:"is_customer" json:"isCustomer"`

	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`
	Address string `db:"address" json:"address,omitempty"`

	// TotalDebt is the signed running balance with this party.
	// Positive: the store owes the party. Negative: the party owes the
	// store. For suppliers this field is owned exclusively by the debt
	// settlement service.
	TotalDebt types.MinorUnits `db:"total_debt" json:"totalDebt"`
}

// NewParty creates a new party.
func NewParty(name string) *Party {
	return &Party{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
	}
}

// NewSupplier creates a new supplier party.
func NewSupplier(name string) *Party {
	p := NewParty(name)
	p.IsSupplier = true
	return p
}

// Validate implements entity.Validatable.
func (p *Party) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
