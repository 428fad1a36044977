package imports

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/units"
)

func newTestCalc() *Calculator {
	return NewCalculator(units.DefaultConverter())
}

func newTestTransaction() *ImportTransaction {
	return NewImportTransaction(id.New(), id.New(), id.New())
}

func pieceLine(qty int64, importPrice types.MinorUnits) NewLineInput {
	return NewLineInput{
		ProductID:       id.New(),
		ProductCode:     "P-001",
		ProductName:     "Test product",
		Unit:            units.Piece,
		Quantity:        qty,
		UnitImportPrice: importPrice,
		UnitSalePrice:   importPrice * 2,
	}
}

func TestAddLine_ComputesLineTotal(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()

	line, err := doc.AddLine(calc, NewLineInput{
		ProductID:       id.New(),
		Unit:            units.Tray,
		Quantity:        2,
		UnitImportPrice: 50,
	})
	require.NoError(t, err)

	// 2 trays = 60 pieces at 50 per piece
	assert.Equal(t, types.Quantity(60), line.BaseQuantity)
	assert.Equal(t, types.MinorUnits(3000), line.LineTotal)
	assert.Equal(t, types.MinorUnits(3000), doc.TotalAmount)
	assert.Equal(t, 1, line.LineNo)
}

func TestTransactionTotal_TwoLineScenario(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()

	// 5 pieces @ 1000
	_, err := doc.AddLine(calc, pieceLine(5, 1000))
	require.NoError(t, err)

	// 1 tray (= 30 pieces) @ 50
	_, err = doc.AddLine(calc, NewLineInput{
		ProductID:       id.New(),
		Unit:            units.Tray,
		Quantity:        1,
		UnitImportPrice: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, types.MinorUnits(6500), doc.TotalAmount)

	require.NoError(t, doc.SetPaidAmount(6000))
	assert.Equal(t, types.MinorUnits(500), doc.Remaining())
}

func TestRemaining_OverpaymentIsNegative(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()

	_, err := doc.AddLine(calc, pieceLine(1, 200))
	require.NoError(t, err)
	require.NoError(t, doc.SetPaidAmount(500))

	assert.Equal(t, types.MinorUnits(-300), doc.Remaining())
}

func TestLineTotal_PropertyOverRandomInputs(t *testing.T) {
	calc := newTestCalc()
	conv := units.DefaultConverter()
	rng := rand.New(rand.NewSource(42))
	allUnits := []units.Unit{units.Piece, units.Dozen, units.Box, units.Tray}

	for i := 0; i < 200; i++ {
		doc := newTestTransaction()
		u := allUnits[rng.Intn(len(allUnits))]
		qty := rng.Int63n(1000) + 1
		price := types.MinorUnits(rng.Int63n(1_000_000))

		line, err := doc.AddLine(calc, NewLineInput{
			ProductID:       id.New(),
			Unit:            u,
			Quantity:        qty,
			UnitImportPrice: price,
		})
		require.NoError(t, err)

		factor, err := conv.Factor(u)
		require.NoError(t, err)
		assert.Equal(t, price*types.MinorUnits(qty*factor), line.LineTotal)
		assert.Equal(t, line.LineTotal, doc.TotalAmount)
	}
}

func TestTotal_AfterAddEditRemoveSequence(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()

	l1, err := doc.AddLine(calc, pieceLine(2, 100))
	require.NoError(t, err)
	l2, err := doc.AddLine(calc, pieceLine(3, 200))
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(800), doc.TotalAmount)

	require.NoError(t, doc.SetLineQuantity(calc, l1.LineID, 5))
	assert.Equal(t, types.MinorUnits(1100), doc.TotalAmount)

	require.NoError(t, doc.SetLinePrices(calc, l2.LineID, 50, 80))
	assert.Equal(t, types.MinorUnits(650), doc.TotalAmount)

	require.NoError(t, doc.RemoveLine(calc, l1.LineID))
	assert.Equal(t, types.MinorUnits(150), doc.TotalAmount)
	assert.Equal(t, 1, doc.Lines[0].LineNo)

	require.NoError(t, doc.RemoveLine(calc, l2.LineID))
	assert.Equal(t, types.MinorUnits(0), doc.TotalAmount)
}

func TestSetLineUnit_ResetsQuantityToOne(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()

	line, err := doc.AddLine(calc, pieceLine(10, 100))
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(1000), doc.TotalAmount)

	require.NoError(t, doc.SetLineUnit(calc, line.LineID, units.Tray))

	got := doc.Lines[0]
	assert.Equal(t, units.Tray, got.Unit)
	assert.Equal(t, int64(1), got.Quantity)
	assert.Equal(t, types.Quantity(30), got.BaseQuantity)
	assert.Equal(t, types.MinorUnits(3000), got.LineTotal)
	assert.Equal(t, types.MinorUnits(3000), doc.TotalAmount)
}

func TestSetLineUnit_UnknownUnit(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()

	line, err := doc.AddLine(calc, pieceLine(1, 100))
	require.NoError(t, err)

	err = doc.SetLineUnit(calc, line.LineID, units.Unit("pallet"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	// Unchanged on failure
	assert.Equal(t, units.Piece, doc.Lines[0].Unit)
	assert.Equal(t, int64(1), doc.Lines[0].Quantity)
}

func TestAddLine_RejectsBadInput(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()

	_, err := doc.AddLine(calc, pieceLine(0, 100))
	assert.True(t, apperror.IsValidation(err))

	_, err = doc.AddLine(calc, pieceLine(-2, 100))
	assert.True(t, apperror.IsValidation(err))

	_, err = doc.AddLine(calc, pieceLine(1, -5))
	assert.True(t, apperror.IsValidation(err))

	past := time.Now().UTC().AddDate(0, 0, -2)
	in := pieceLine(1, 100)
	in.ExpireDate = &past
	_, err = doc.AddLine(calc, in)
	assert.True(t, apperror.IsValidation(err))

	assert.Empty(t, doc.Lines)
	assert.Equal(t, types.MinorUnits(0), doc.TotalAmount)
}

func TestMutation_RejectedWhenTerminal(t *testing.T) {
	calc := newTestCalc()

	for _, status := range []Status{StatusComplete, StatusCancelled} {
		doc := newTestTransaction()
		line, err := doc.AddLine(calc, pieceLine(1, 100))
		require.NoError(t, err)

		doc.Status = status

		_, err = doc.AddLine(calc, pieceLine(1, 100))
		assert.Error(t, err, "add in %s", status)

		assert.Error(t, doc.SetLineQuantity(calc, line.LineID, 2))
		assert.Error(t, doc.SetLineUnit(calc, line.LineID, units.Box))
		assert.Error(t, doc.RemoveLine(calc, line.LineID))
		assert.Error(t, doc.SetPaidAmount(10))
	}
}

func TestValidateForSubmission_GuardOrder(t *testing.T) {
	ctx := context.Background()
	calc := newTestCalc()

	// Missing everything: supplier guard fires first.
	doc := NewImportTransaction(id.Nil(), id.Nil(), id.New())
	err := doc.ValidateForSubmission(ctx)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "supplierId", appErr.Details["field"])

	// Supplier set: store guard next.
	doc.SupplierID = id.New()
	err = doc.ValidateForSubmission(ctx)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "storeId", appErr.Details["field"])

	// Store set: lines guard next.
	doc.StoreID = id.New()
	err = doc.ValidateForSubmission(ctx)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "lines", appErr.Details["field"])

	// Line without zone: zone guard last.
	_, err = doc.AddLine(calc, pieceLine(1, 100))
	require.NoError(t, err)
	err = doc.ValidateForSubmission(ctx)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "MISSING_ZONE", appErr.Details["reason"])

	// Zone set: passes.
	require.NoError(t, doc.SetLineZones(doc.Lines[0].LineID, []id.ID{id.New()}))
	assert.NoError(t, doc.ValidateForSubmission(ctx))
}

func TestEditSnapshot_DirtyCheck(t *testing.T) {
	calc := newTestCalc()
	doc := newTestTransaction()
	_, err := doc.AddLine(calc, pieceLine(2, 100))
	require.NoError(t, err)

	snap := doc.TakeEditSnapshot()
	assert.False(t, doc.IsDirty(snap))

	doc.Note = "urgent"
	assert.True(t, doc.IsDirty(snap))
	doc.Note = ""
	assert.False(t, doc.IsDirty(snap))

	require.NoError(t, doc.SetPaidAmount(50))
	assert.True(t, doc.IsDirty(snap))
	require.NoError(t, doc.SetPaidAmount(0))
	assert.False(t, doc.IsDirty(snap))

	require.NoError(t, doc.SetLineZones(doc.Lines[0].LineID, []id.ID{id.New()}))
	assert.True(t, doc.IsDirty(snap))
}
