package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/core/id"
	"restock/internal/domain"
	"restock/internal/domain/imports"
	"restock/internal/infrastructure/storage/postgres"
)

const (
	importTable      = "doc_import_transactions"
	importLinesTable = "doc_import_transaction_lines"
)

var importLineColumns = []string{
	"line_id",
	"line_no",
	"product_id",
	"product_code",
	"product_name",
	"unit",
	"quantity",
	"base_quantity",
	"unit_import_price",
	"unit_sale_price",
	"zone_ids",
	"expire_date",
	"line_total",
	"batch_id",
}

// ImportTransactionRepo persists import transactions: header in
// doc_import_transactions, table part in doc_import_transaction_lines.
type ImportTransactionRepo struct {
	*BaseDocumentRepo[*imports.ImportTransaction]
	txManager *postgres.TxManager
}

// NewImportTransactionRepo creates the import transaction repository.
func NewImportTransactionRepo(txManager *postgres.TxManager) *ImportTransactionRepo {
	return &ImportTransactionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			importTable,
			postgres.ExtractDBColumns[imports.ImportTransaction](),
			func() *imports.ImportTransaction { return &imports.ImportTransaction{} },
		),
		txManager: txManager,
	}
}

// GetLines retrieves the table part ordered by line number.
func (r *ImportTransactionRepo) GetLines(ctx context.Context, docID id.ID) ([]imports.LineItem, error) {
	sql, args, err := r.Builder().
		Select(importLineColumns...).
		From(importLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get lines: %w", err)
	}

	lines := make([]imports.LineItem, 0)
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the table part of a document.
func (r *ImportTransactionRepo) SaveLines(ctx context.Context, docID id.ID, lines []imports.LineItem) error {
	querier := r.txManager.GetQuerier(ctx)

	delSQL, delArgs, err := r.Builder().
		Delete(importLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	cols := append([]string{"document_id"}, importLineColumns...)
	ins := r.Builder().Insert(importLinesTable).Columns(cols...)
	for _, line := range lines {
		ins = ins.Values(
			docID,
			line.LineID,
			line.LineNo,
			line.ProductID,
			line.ProductCode,
			line.ProductName,
			line.Unit,
			line.Quantity,
			line.BaseQuantity,
			line.UnitImportPrice,
			line.UnitSalePrice,
			line.ZoneIDs,
			line.ExpireDate,
			line.LineTotal,
			line.BatchID,
		)
	}

	insSQL, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := querier.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// MarkDebtApplied flips the debt_applied flag. Does not bump the version:
// settlement runs after the completion tx committed and must not race the
// optimistic lock.
func (r *ImportTransactionRepo) MarkDebtApplied(ctx context.Context, docID id.ID) error {
	sql, args, err := r.Builder().
		Update(importTable).
		Set("debt_applied", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark debt applied: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark debt applied: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark debt applied: document %s not found", docID)
	}

	return nil
}

// List retrieves transaction headers with filtering and pagination.
func (r *ImportTransactionRepo) List(ctx context.Context, filter imports.ListFilter) (domain.ListResult[*imports.ImportTransaction], error) {
	var zero domain.ListResult[*imports.ImportTransaction]

	q := r.baseSelect()
	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.StoreID != nil {
		q = q.Where(squirrel.Eq{"store_id": *filter.StoreID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Balance != nil {
		q = q.Where(squirrel.Eq{"balance": *filter.Balance})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"note": pattern},
		})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	querier := r.txManager.GetQuerier(ctx)

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "filtered").
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return zero, fmt.Errorf("count transactions: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return zero, err
	}
	q = q.OrderBy(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return zero, fmt.Errorf("build list: %w", err)
	}

	items := make([]*imports.ImportTransaction, 0)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return zero, fmt.Errorf("list transactions: %w", err)
	}

	return domain.ListResult[*imports.ImportTransaction]{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

var _ imports.Repository = (*ImportTransactionRepo)(nil)
