// Package report_repo provides PostgreSQL implementations for report
// queries. Reports are read-only and run through the read-only tx path.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/domain/imports"
	"restock/internal/domain/reports"
	"restock/internal/infrastructure/storage/postgres"
)

// PurchaseReportRepo aggregates completed import transactions per supplier.
type PurchaseReportRepo struct {
	txManager *postgres.TxManager
}

// NewPurchaseReportRepo creates the purchase report repository.
func NewPurchaseReportRepo(txManager *postgres.TxManager) *PurchaseReportRepo {
	return &PurchaseReportRepo{txManager: txManager}
}

// PurchaseSummary aggregates COMPLETE transactions per supplier. Sums are
// computed on stored minor units; decimal rendering happens in the
// report service.
func (r *PurchaseReportRepo) PurchaseSummary(ctx context.Context, filter reports.PurchaseFilter) ([]reports.SupplierPurchaseRow, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(
			"p.id AS supplier_id",
			"p.name AS supplier_name",
			"COUNT(t.id) AS transactions",
			"COALESCE(SUM(t.total_amount), 0) AS total_amount",
			"COALESCE(SUM(t.paid_amount), 0) AS paid_amount",
			"p.total_debt",
		).
		From("doc_import_transactions t").
		Join("cat_parties p ON p.id = t.supplier_id").
		Where(squirrel.Eq{"t.status": imports.StatusComplete}).
		Where(squirrel.Eq{"t.deletion_mark": false}).
		GroupBy("p.id", "p.name", "p.total_debt").
		OrderBy("total_amount DESC")

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"t.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"t.date": *filter.DateTo})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"t.supplier_id": *filter.SupplierID})
	}
	if filter.StoreID != nil {
		q = q.Where(squirrel.Eq{"t.store_id": *filter.StoreID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build purchase summary: %w", err)
	}

	rows := make([]reports.SupplierPurchaseRow, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("purchase summary: %w", err)
	}

	return rows, nil
}

var _ reports.Repository = (*PurchaseReportRepo)(nil)
