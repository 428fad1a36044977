package stocktake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/imports"
	"restock/internal/domain/units"
)

type fakeStocktakeRepo struct {
	surplus  map[id.ID]*Surplus
	balanced map[id.ID]bool
	markErr  error
}

func newFakeStocktakeRepo() *fakeStocktakeRepo {
	return &fakeStocktakeRepo{
		surplus:  make(map[id.ID]*Surplus),
		balanced: make(map[id.ID]bool),
	}
}

func (r *fakeStocktakeRepo) GetSurplus(ctx context.Context, stocktakeID id.ID) (*Surplus, error) {
	s, ok := r.surplus[stocktakeID]
	if !ok {
		return nil, apperror.NewNotFound("stocktake", stocktakeID.String())
	}
	return s, nil
}

func (r *fakeStocktakeRepo) IsBalanced(ctx context.Context, stocktakeID id.ID) (bool, error) {
	return r.balanced[stocktakeID], nil
}

func (r *fakeStocktakeRepo) MarkBalanced(ctx context.Context, stocktakeID id.ID) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.balanced[stocktakeID] = true
	return nil
}

type fakeBatchUpdater struct {
	remain  map[id.ID]types.Quantity
	failFor map[id.ID]error
}

func newFakeBatchUpdater() *fakeBatchUpdater {
	return &fakeBatchUpdater{
		remain:  make(map[id.ID]types.Quantity),
		failFor: make(map[id.ID]error),
	}
}

func (u *fakeBatchUpdater) AddToRemain(ctx context.Context, batchID id.ID, delta types.Quantity) (types.Quantity, error) {
	if err := u.failFor[batchID]; err != nil {
		return 0, err
	}
	u.remain[batchID] += delta
	return u.remain[batchID], nil
}

func newTestReconciler() (*Reconciler, *fakeStocktakeRepo, *fakeBatchUpdater) {
	repo := newFakeStocktakeRepo()
	updater := newFakeBatchUpdater()
	calc := imports.NewCalculator(units.DefaultConverter())
	return NewReconciler(repo, updater, calc), repo, updater
}

func TestBuildDraft_OneLinePerPositiveSurplus(t *testing.T) {
	rec, repo, _ := newTestReconciler()
	ctx := context.Background()

	stocktakeID, storeID, staffID := id.New(), id.New(), id.New()
	batchA, batchB := id.New(), id.New()
	zoneA := id.New()

	repo.surplus[stocktakeID] = &Surplus{
		StocktakeID: stocktakeID,
		StoreID:     storeID,
		Items: []SurplusItem{
			{ProductID: id.New(), BatchID: batchA, Real: 12, Remain: 10, ZoneIDs: []id.ID{zoneA}},
			{ProductID: id.New(), BatchID: id.New(), Real: 5, Remain: 5},  // zero diff, skipped
			{ProductID: id.New(), BatchID: id.New(), Real: 3, Remain: 7},  // shortage, skipped
			{ProductID: id.New(), BatchID: batchB, Real: 40, Remain: 33},
		},
	}

	doc, err := rec.BuildDraft(ctx, stocktakeID, staffID)
	require.NoError(t, err)

	assert.True(t, doc.Balance)
	assert.Equal(t, storeID, doc.StoreID)
	assert.Equal(t, imports.StatusDraft, doc.Status)
	require.Len(t, doc.Lines, 2)

	first := doc.Lines[0]
	assert.Equal(t, int64(2), first.Quantity)
	assert.Equal(t, units.Piece, first.Unit)
	assert.Equal(t, types.MinorUnits(0), first.UnitImportPrice)
	assert.Equal(t, types.MinorUnits(0), first.LineTotal)
	require.NotNil(t, first.BatchID)
	assert.Equal(t, batchA, *first.BatchID)
	assert.Equal(t, []id.ID{zoneA}, first.ZoneIDs)

	second := doc.Lines[1]
	assert.Equal(t, int64(7), second.Quantity)
	require.NotNil(t, second.BatchID)
	assert.Equal(t, batchB, *second.BatchID)
}

func TestBuildDraft_NoSurplus(t *testing.T) {
	rec, repo, _ := newTestReconciler()
	ctx := context.Background()

	stocktakeID := id.New()
	repo.surplus[stocktakeID] = &Surplus{
		StocktakeID: stocktakeID,
		StoreID:     id.New(),
		Items: []SurplusItem{
			{ProductID: id.New(), BatchID: id.New(), Real: 3, Remain: 5},
		},
	}

	_, err := rec.BuildDraft(ctx, stocktakeID, id.New())
	assert.True(t, apperror.IsValidation(err))
}

func balanceLine(t *testing.T, calc *imports.Calculator, batchID id.ID, qty int64) imports.LineItem {
	t.Helper()
	doc := imports.NewImportTransaction(id.Nil(), id.New(), id.New())
	doc.Balance = true
	line, err := doc.AddLine(calc, imports.NewLineInput{
		ProductID: id.New(),
		Unit:      units.Piece,
		Quantity:  qty,
		BatchID:   &batchID,
	})
	require.NoError(t, err)
	return *line
}

// The contract under test: one failed batch update must not abort the
// remaining updates, and the report names the failed batch.
func TestApplyBalance_MiddleFailureDoesNotAbort(t *testing.T) {
	rec, repo, updater := newTestReconciler()
	ctx := context.Background()
	calc := imports.NewCalculator(units.DefaultConverter())

	stocktakeID := id.New()
	batch1, batch2, batch3 := id.New(), id.New(), id.New()
	updater.failFor[batch2] = errors.New("batch row locked")

	lines := []imports.LineItem{
		balanceLine(t, calc, batch1, 2),
		balanceLine(t, calc, batch2, 5),
		balanceLine(t, calc, batch3, 7),
	}

	report, err := rec.ApplyBalance(ctx, stocktakeID, lines)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Applied)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 3)

	assert.True(t, report.Results[0].OK())
	assert.False(t, report.Results[1].OK())
	assert.Equal(t, batch2, report.Results[1].BatchID)
	assert.True(t, report.Results[2].OK())

	// First and third applied despite the middle failure.
	assert.Equal(t, types.Quantity(2), updater.remain[batch1])
	assert.Equal(t, types.Quantity(0), updater.remain[batch2])
	assert.Equal(t, types.Quantity(7), updater.remain[batch3])

	// Partial success still marks the stocktake balanced.
	assert.True(t, repo.balanced[stocktakeID])
}

func TestApplyBalance_FullSuccess(t *testing.T) {
	rec, repo, updater := newTestReconciler()
	ctx := context.Background()
	calc := imports.NewCalculator(units.DefaultConverter())

	stocktakeID := id.New()
	batch := id.New()

	report, err := rec.ApplyBalance(ctx, stocktakeID, []imports.LineItem{
		balanceLine(t, calc, batch, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, types.Quantity(4), updater.remain[batch])
	assert.True(t, repo.balanced[stocktakeID])
}

func TestApplyBalance_AllFail_NotMarkedBalanced(t *testing.T) {
	rec, repo, updater := newTestReconciler()
	ctx := context.Background()
	calc := imports.NewCalculator(units.DefaultConverter())

	stocktakeID := id.New()
	batch := id.New()
	updater.failFor[batch] = errors.New("gone")

	report, err := rec.ApplyBalance(ctx, stocktakeID, []imports.LineItem{
		balanceLine(t, calc, batch, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Applied)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, repo.balanced[stocktakeID])
}

func TestApplyBalance_EmptyInput(t *testing.T) {
	rec, _, _ := newTestReconciler()

	_, err := rec.ApplyBalance(context.Background(), id.New(), nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestApplyBalance_LineWithoutBatchReference(t *testing.T) {
	rec, _, updater := newTestReconciler()
	ctx := context.Background()
	calc := imports.NewCalculator(units.DefaultConverter())

	good := id.New()
	noBatch := balanceLine(t, calc, id.New(), 1)
	noBatch.BatchID = nil

	report, err := rec.ApplyBalance(ctx, id.New(), []imports.LineItem{
		noBatch,
		balanceLine(t, calc, good, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, types.Quantity(3), updater.remain[good])
}
