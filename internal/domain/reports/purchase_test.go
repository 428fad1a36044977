package reports

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/id"
)

type fakeReportRepo struct {
	rows []SupplierPurchaseRow
}

func (r *fakeReportRepo) PurchaseSummary(ctx context.Context, filter PurchaseFilter) ([]SupplierPurchaseRow, error) {
	return r.rows, nil
}

func TestPurchaseSummary_DecimalConversion(t *testing.T) {
	repo := &fakeReportRepo{rows: []SupplierPurchaseRow{
		{
			SupplierID:   id.New(),
			SupplierName: "ACME Wholesale",
			Transactions: 3,
			TotalAmount:  650075, // 6500.75
			PaidAmount:   600000,
			TotalDebt:    50075,
		},
		{
			SupplierID:   id.New(),
			SupplierName: "Overpaid Ltd",
			Transactions: 1,
			TotalAmount:  20000,
			PaidAmount:   50000,
			TotalDebt:    -30000,
		},
	}}
	svc := NewService(repo)

	rows, err := svc.PurchaseSummary(context.Background(), PurchaseFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Total.Equal(decimal.RequireFromString("6500.75")))
	assert.True(t, rows[0].Paid.Equal(decimal.RequireFromString("6000.00")))
	assert.True(t, rows[0].Remaining.Equal(decimal.RequireFromString("500.75")))
	assert.True(t, rows[0].Debt.Equal(decimal.RequireFromString("500.75")))

	// Overpayment stays negative, never floored.
	assert.True(t, rows[1].Remaining.Equal(decimal.RequireFromString("-300.00")))
	assert.True(t, rows[1].Debt.Equal(decimal.RequireFromString("-300.00")))
}
