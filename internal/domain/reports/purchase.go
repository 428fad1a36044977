// Package reports builds read-only purchase and debt summaries.
// Stored amounts are integer minor units; report rows expose decimal
// money values for rendering.
package reports

import (
	"context"
	"time"

	"restock/internal/core/id"
	"restock/internal/core/types"
)

// SupplierPurchaseRow aggregates completed imports per supplier.
type SupplierPurchaseRow struct {
	SupplierID   id.ID  `db:"supplier_id" json:"supplierId"`
	SupplierName string `db:"supplier_name" json:"supplierName"`

	Transactions int64 `db:"transactions" json:"transactions"`

	// Raw sums in minor units
	TotalAmount types.MinorUnits `db:"total_amount" json:"-"`
	PaidAmount  types.MinorUnits `db:"paid_amount" json:"-"`
	TotalDebt   types.MinorUnits `db:"total_debt" json:"-"`

	// Decimal money values for presentation
	Total     types.Money `db:"-" json:"total"`
	Paid      types.Money `db:"-" json:"paid"`
	Remaining types.Money `db:"-" json:"remaining"`
	Debt      types.Money `db:"-" json:"debt"`
}

// PurchaseFilter scopes the purchase summary.
type PurchaseFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	SupplierID *id.ID
	StoreID    *id.ID
}

// Repository reads aggregated report data.
type Repository interface {
	// PurchaseSummary aggregates COMPLETE transactions per supplier.
	PurchaseSummary(ctx context.Context, filter PurchaseFilter) ([]SupplierPurchaseRow, error)
}

// Service renders report rows.
type Service struct {
	repo Repository
}

// NewService creates the report service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PurchaseSummary returns per-supplier purchase totals with decimal
// money fields populated from the stored minor units.
func (s *Service) PurchaseSummary(ctx context.Context, filter PurchaseFilter) ([]SupplierPurchaseRow, error) {
	rows, err := s.repo.PurchaseSummary(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Total = rows[i].TotalAmount.ToMoney()
		rows[i].Paid = rows[i].PaidAmount.ToMoney()
		rows[i].Remaining = (rows[i].TotalAmount - rows[i].PaidAmount).ToMoney()
		rows[i].Debt = rows[i].TotalDebt.ToMoney()
	}
	return rows, nil
}
