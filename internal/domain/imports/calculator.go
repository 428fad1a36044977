package imports

import (
	"restock/internal/core/types"
	"restock/internal/domain/units"
)

// Calculator computes line and transaction totals.
// All monetary math is done in integer minor units.
type Calculator struct {
	units *units.Converter
}

// NewCalculator creates a calculator over the given unit table.
func NewCalculator(conv *units.Converter) *Calculator {
	return &Calculator{units: conv}
}

// Units returns the underlying unit converter.
func (c *Calculator) Units() *units.Converter {
	return c.units
}

// ComputeLineTotal returns unitImportPrice multiplied by the base-unit
// quantity of the line. Prices are per base unit.
func (c *Calculator) ComputeLineTotal(item LineItem) (types.MinorUnits, error) {
	baseQty, err := c.units.ToBaseQuantity(item.Quantity, item.Unit)
	if err != nil {
		return 0, err
	}
	return item.UnitImportPrice * types.MinorUnits(baseQty), nil
}

// ComputeTransactionTotal sums line totals. Empty list yields 0.
func (c *Calculator) ComputeTransactionTotal(items []LineItem) types.MinorUnits {
	var total types.MinorUnits
	for _, item := range items {
		total += item.LineTotal
	}
	return total
}

// ComputeRemaining returns total minus paid. A negative result means
// overpayment and is surfaced as-is, never floored to zero.
func (c *Calculator) ComputeRemaining(total, paid types.MinorUnits) types.MinorUnits {
	return total - paid
}
