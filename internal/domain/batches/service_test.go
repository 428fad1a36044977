package batches

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/imports"
	"restock/internal/domain/units"
)

type fakeBatchRepo struct {
	batches map[id.ID]*Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[id.ID]*Batch)}
}

func (r *fakeBatchRepo) Create(ctx context.Context, batch *Batch) error {
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeBatchRepo) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	b, ok := r.batches[batchID]
	if !ok {
		return nil, apperror.NewNotFound("batch", batchID.String())
	}
	return b, nil
}

func (r *fakeBatchRepo) AddToRemain(ctx context.Context, batchID id.ID, delta types.Quantity) (types.Quantity, error) {
	b, ok := r.batches[batchID]
	if !ok {
		return 0, apperror.NewNotFound("batch", batchID.String())
	}
	b.RemainQuantity += delta
	return b.RemainQuantity, nil
}

func (r *fakeBatchRepo) ListByProduct(ctx context.Context, storeID, productID id.ID) ([]*Batch, error) {
	var out []*Batch
	for _, b := range r.batches {
		if b.StoreID == storeID && b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) ListByImport(ctx context.Context, importID id.ID) ([]*Batch, error) {
	var out []*Batch
	for _, b := range r.batches {
		if b.ImportID == importID {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestCreateForImport_OneBatchPerLine(t *testing.T) {
	repo := newFakeBatchRepo()
	svc := NewService(repo)
	ctx := context.Background()

	calc := imports.NewCalculator(units.DefaultConverter())
	doc := imports.NewImportTransaction(id.New(), id.New(), id.New())

	zoneA, zoneB := id.New(), id.New()
	_, err := doc.AddLine(calc, imports.NewLineInput{
		ProductID:       id.New(),
		Unit:            units.Piece,
		Quantity:        5,
		UnitImportPrice: 1000,
		UnitSalePrice:   1500,
		ZoneIDs:         []id.ID{zoneA},
	})
	require.NoError(t, err)
	_, err = doc.AddLine(calc, imports.NewLineInput{
		ProductID:       id.New(),
		Unit:            units.Tray,
		Quantity:        2,
		UnitImportPrice: 50,
		UnitSalePrice:   90,
		ZoneIDs:         []id.ID{zoneA, zoneB},
	})
	require.NoError(t, err)

	require.NoError(t, svc.CreateForImport(ctx, doc))

	created, err := svc.ListByImport(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)

	byLine := map[id.ID]*Batch{}
	for _, b := range created {
		byLine[b.LineID] = b
	}

	first := byLine[doc.Lines[0].LineID]
	require.NotNil(t, first)
	assert.Equal(t, types.Quantity(5), first.InitialQuantity)
	assert.Equal(t, types.Quantity(5), first.RemainQuantity)
	assert.Equal(t, types.MinorUnits(1000), first.ImportPrice)
	assert.Equal(t, []id.ID{zoneA}, first.ZoneIDs)

	second := byLine[doc.Lines[1].LineID]
	require.NotNil(t, second)
	// 2 trays = 60 pieces
	assert.Equal(t, types.Quantity(60), second.InitialQuantity)
	assert.Equal(t, []id.ID{zoneA, zoneB}, second.ZoneIDs)
}

func TestCreateForImport_BalanceLineTopsUpExistingBatch(t *testing.T) {
	repo := newFakeBatchRepo()
	svc := NewService(repo)
	ctx := context.Background()

	existing := &Batch{
		ProductID:       id.New(),
		StoreID:         id.New(),
		InitialQuantity: 10,
		RemainQuantity:  4,
	}
	existing.ID = id.New()
	repo.batches[existing.ID] = existing

	calc := imports.NewCalculator(units.DefaultConverter())
	doc := imports.NewImportTransaction(id.New(), existing.StoreID, id.New())
	doc.Balance = true

	batchID := existing.ID
	_, err := doc.AddLine(calc, imports.NewLineInput{
		ProductID: existing.ProductID,
		Unit:      units.Piece,
		Quantity:  3,
		BatchID:   &batchID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CreateForImport(ctx, doc))

	// Topped up, no new batch created.
	assert.Equal(t, types.Quantity(7), existing.RemainQuantity)
	assert.Len(t, repo.batches, 1)
}

func TestAddToRemain(t *testing.T) {
	repo := newFakeBatchRepo()
	svc := NewService(repo)
	ctx := context.Background()

	b := &Batch{InitialQuantity: 10, RemainQuantity: 10}
	b.ID = id.New()
	repo.batches[b.ID] = b

	remain, err := svc.AddToRemain(ctx, b.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(15), remain)

	_, err = svc.AddToRemain(ctx, id.New(), 1)
	assert.True(t, apperror.IsNotFound(err))
}
