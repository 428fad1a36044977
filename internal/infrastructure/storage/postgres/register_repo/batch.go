// Package register_repo provides PostgreSQL implementations for stock
// register repositories.
package register_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/batches"
	"restock/internal/infrastructure/storage/postgres"
)

const batchTable = "reg_batches"

// BatchRepo persists stock batches in reg_batches.
type BatchRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

// NewBatchRepo creates the batch repository.
func NewBatchRepo(txManager *postgres.TxManager) *BatchRepo {
	return &BatchRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[batches.Batch](),
	}
}

func (r *BatchRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new batch.
func (r *BatchRepo) Create(ctx context.Context, batch *batches.Batch) error {
	data := postgres.StructToMap(batch)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in batch")
	}

	sql, args, err := r.builder().
		Insert(batchTable).
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	return nil
}

// GetByID retrieves a batch.
func (r *BatchRepo) GetByID(ctx context.Context, batchID id.ID) (*batches.Batch, error) {
	sql, args, err := r.builder().
		Select(r.columns...).
		From(batchTable).
		Where(squirrel.Eq{"id": batchID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	batch := &batches.Batch{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), batch, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}

	return batch, nil
}

// AddToRemain atomically adds delta to remain_quantity and returns the
// new value. The read-modify-write stays on the database side so
// concurrent adjustments cannot lose updates.
func (r *BatchRepo) AddToRemain(ctx context.Context, batchID id.ID, delta types.Quantity) (types.Quantity, error) {
	sql, args, err := r.builder().
		Update(batchTable).
		Set("remain_quantity", squirrel.Expr("remain_quantity + ?", int64(delta))).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": batchID}).
		Suffix("RETURNING remain_quantity").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build add to remain: %w", err)
	}

	var remain int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&remain); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("batch", batchID.String())
		}
		return 0, fmt.Errorf("add to remain: %w", err)
	}

	return types.Quantity(remain), nil
}

// ListByProduct returns batches of a product in a store, oldest first.
func (r *BatchRepo) ListByProduct(ctx context.Context, storeID, productID id.ID) ([]*batches.Batch, error) {
	sql, args, err := r.builder().
		Select(r.columns...).
		From(batchTable).
		Where(squirrel.Eq{"store_id": storeID}).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("received_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*batches.Batch, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches by product: %w", err)
	}

	return items, nil
}

// ListByImport returns batches created by an import transaction.
func (r *BatchRepo) ListByImport(ctx context.Context, importID id.ID) ([]*batches.Batch, error) {
	sql, args, err := r.builder().
		Select(r.columns...).
		From(batchTable).
		Where(squirrel.Eq{"import_id": importID}).
		OrderBy("received_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*batches.Batch, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches by import: %w", err)
	}

	return items, nil
}

var _ batches.Repository = (*BatchRepo)(nil)
