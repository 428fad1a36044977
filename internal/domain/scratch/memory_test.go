package scratch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/id"
	"restock/internal/domain/imports"
	"restock/internal/domain/units"
)

func newDraft(t *testing.T) *imports.ImportTransaction {
	t.Helper()
	calc := imports.NewCalculator(units.DefaultConverter())
	doc := imports.NewImportTransaction(id.New(), id.New(), id.New())
	_, err := doc.AddLine(calc, imports.NewLineInput{
		ProductID:       id.New(),
		Unit:            units.Piece,
		Quantity:        3,
		UnitImportPrice: 100,
	})
	require.NoError(t, err)
	return doc
}

func TestMemoryStore_SaveLoadWithinTTL(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	doc := newDraft(t)

	require.NoError(t, store.Save(ctx, doc))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, doc.ID, snap.Transaction.ID)
	assert.Equal(t, doc.TotalAmount, snap.Transaction.TotalAmount)
	assert.False(t, snap.SavedAt.IsZero())
}

func TestMemoryStore_LoadAfterExpiryClearsSlot(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	current := time.Now().UTC()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, newDraft(t)))

	// Just inside the window.
	current = current.Add(59 * time.Minute)
	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, snap)

	// Past the window: discarded and slot cleared.
	current = current.Add(2 * time.Minute)
	snap, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	// Slot stays empty even if the clock goes back.
	current = current.Add(-10 * time.Minute)
	snap, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestMemoryStore_SaveReplacesSlot(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	first := newDraft(t)
	second := newDraft(t)

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, second.ID, snap.Transaction.ID)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newDraft(t)))
	require.NoError(t, store.Clear(ctx))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestMemoryStore_EmptyLoad(t *testing.T) {
	store := NewMemoryStore(0)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}
