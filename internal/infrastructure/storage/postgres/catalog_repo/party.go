package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain"
	"restock/internal/domain/party"
	"restock/internal/infrastructure/storage/postgres"
)

// PartyRepo persists the party catalog in cat_parties and owns the
// debt ledger column.
type PartyRepo struct {
	*BaseCatalogRepo[*party.Party]
	txManager *postgres.TxManager
}

// NewPartyRepo creates the party repository.
func NewPartyRepo(txManager *postgres.TxManager) *PartyRepo {
	return &PartyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_parties",
			postgres.ExtractDBColumns[party.Party](),
			func() *party.Party { return &party.Party{} },
		),
		txManager: txManager,
	}
}

// AdjustDebt atomically adds delta to total_debt and returns the new
// balance. A single UPDATE ... RETURNING keeps the read-modify-write on
// the database side.
func (r *PartyRepo) AdjustDebt(ctx context.Context, partyID id.ID, delta types.MinorUnits) (types.MinorUnits, error) {
	sql, args, err := r.Builder().
		Update("cat_parties").
		Set("total_debt", squirrel.Expr("total_debt + ?", int64(delta))).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": partyID}).
		Suffix("RETURNING total_debt").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build adjust debt: %w", err)
	}

	var newDebt int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&newDebt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("party", partyID.String())
		}
		return 0, fmt.Errorf("adjust debt: %w", err)
	}

	return types.MinorUnits(newDebt), nil
}

// ListSuppliers returns supplier parties only.
func (r *PartyRepo) ListSuppliers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*party.Party], error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[party.Party]()...).
		From("cat_parties").
		Where(squirrel.Eq{"is_supplier": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	items, err := r.FindAll(ctx, q)
	if err != nil {
		return domain.ListResult[*party.Party]{}, err
	}
	return domain.ListResult[*party.Party]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

var _ party.Repository = (*PartyRepo)(nil)
