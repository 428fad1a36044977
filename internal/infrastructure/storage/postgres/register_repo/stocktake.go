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
	"restock/internal/domain/stocktake"
	"restock/internal/infrastructure/storage/postgres"
)

const (
	stocktakeTable      = "doc_stocktakes"
	stocktakeLinesTable = "doc_stocktake_lines"
)

// StocktakeRepo reads stocktake surplus data from doc_stocktakes and its
// counting lines, and owns the balanced flag.
type StocktakeRepo struct {
	txManager *postgres.TxManager
}

// NewStocktakeRepo creates the stocktake repository.
func NewStocktakeRepo(txManager *postgres.TxManager) *StocktakeRepo {
	return &StocktakeRepo{txManager: txManager}
}

func (r *StocktakeRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetSurplus returns the surplus slice of a stocktake: its store and the
// counting lines where the physical count exceeded the system quantity.
func (r *StocktakeRepo) GetSurplus(ctx context.Context, stocktakeID id.ID) (*stocktake.Surplus, error) {
	querier := r.txManager.GetQuerier(ctx)

	headSQL, headArgs, err := r.builder().
		Select("store_id").
		From(stocktakeTable).
		Where(squirrel.Eq{"id": stocktakeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build surplus header: %w", err)
	}

	var storeID id.ID
	if err := querier.QueryRow(ctx, headSQL, headArgs...).Scan(&storeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("stocktake", stocktakeID.String())
		}
		return nil, fmt.Errorf("get stocktake header: %w", err)
	}

	// real is a reserved word, so the column is stored as real_quantity
	// and aliased back to the struct tag.
	linesSQL, linesArgs, err := r.builder().
		Select(
			"product_id",
			"batch_id",
			`real_quantity AS "real"`,
			"remain_quantity AS remain",
			"zone_ids",
		).
		From(stocktakeLinesTable).
		Where(squirrel.Eq{"document_id": stocktakeID}).
		Where(squirrel.Expr("real_quantity > remain_quantity")).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build surplus lines: %w", err)
	}

	items := make([]stocktake.SurplusItem, 0)
	if err := pgxscan.Select(ctx, querier, &items, linesSQL, linesArgs...); err != nil {
		return nil, fmt.Errorf("get surplus lines: %w", err)
	}

	return &stocktake.Surplus{
		StocktakeID: stocktakeID,
		StoreID:     storeID,
		Items:       items,
	}, nil
}

// IsBalanced reports whether the stocktake was already reconciled.
func (r *StocktakeRepo) IsBalanced(ctx context.Context, stocktakeID id.ID) (bool, error) {
	sql, args, err := r.builder().
		Select("balanced").
		From(stocktakeTable).
		Where(squirrel.Eq{"id": stocktakeID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build balanced query: %w", err)
	}

	var balanced bool
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&balanced); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperror.NewNotFound("stocktake", stocktakeID.String())
		}
		return false, fmt.Errorf("get balanced flag: %w", err)
	}

	return balanced, nil
}

// MarkBalanced flags the stocktake as reconciled.
func (r *StocktakeRepo) MarkBalanced(ctx context.Context, stocktakeID id.ID) error {
	sql, args, err := r.builder().
		Update(stocktakeTable).
		Set("balanced", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": stocktakeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark balanced: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark balanced: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("stocktake", stocktakeID.String())
	}

	return nil
}

var _ stocktake.Repository = (*StocktakeRepo)(nil)
