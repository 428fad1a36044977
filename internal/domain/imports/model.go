// Package imports provides the ImportTransaction document: a priced,
// zoned, stateful purchase record built from a cart of purchased goods.
package imports

import (
	"context"
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/units"
)

// ImportTransaction represents a purchase document.
// TotalAmount is always derived from line items and is recomputed on
// every mutation, never trusted from caller input.
type ImportTransaction struct {
	entity.Document

	Status Status `db:"status" json:"status"`

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`
	StoreID    id.ID `db:"store_id" json:"storeId"`
	StaffID    id.ID `db:"staff_id" json:"staffId"`

	// PaidAmount is what was paid to the supplier up front. It is NOT
	// clamped to TotalAmount: overpayment is legal and produces a
	// negative remaining balance.
	PaidAmount types.MinorUnits `db:"paid_amount" json:"paidAmount"`

	// TotalAmount is derived from lines (in minor units)
	TotalAmount types.MinorUnits `db:"total_amount" json:"totalAmount"`

	// DebtApplied records whether supplier debt settlement ran for this
	// transaction. Set after completion; guards cancellation.
	DebtApplied bool `db:"debt_applied" json:"debtApplied"`

	// Balance marks a synthetic transaction built from stocktake surplus.
	// Balance imports increment existing batches instead of creating new ones.
	Balance bool `db:"balance" json:"balance"`

	// Table part: purchased goods
	Lines []LineItem `db:"-" json:"lines"`
}

// LineItem is one purchased product line.
type LineItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// Denormalized display copy, frozen at add time
	ProductCode string `db:"product_code" json:"productCode"`
	ProductName string `db:"product_name" json:"productName"`

	// Display unit and quantity as entered
	Unit     units.Unit `db:"unit" json:"unit"`
	Quantity int64      `db:"quantity" json:"quantity"`

	// BaseQuantity is Quantity converted to base units (derived)
	BaseQuantity types.Quantity `db:"base_quantity" json:"baseQuantity"`

	// Prices are per base unit, in minor units
	UnitImportPrice types.MinorUnits `db:"unit_import_price" json:"unitImportPrice"`
	UnitSalePrice   types.MinorUnits `db:"unit_sale_price" json:"unitSalePrice"`

	// ZoneIDs is the storage placement set. Empty is legal while
	// editing and rejected at commit boundaries.
	ZoneIDs []id.ID `db:"zone_ids" json:"zoneIds"`

	ExpireDate *time.Time `db:"expire_date" json:"expireDate,omitempty"`

	// LineTotal = UnitImportPrice * BaseQuantity (derived)
	LineTotal types.MinorUnits `db:"line_total" json:"lineTotal"`

	// BatchID links a balance-import line back to the existing batch it
	// tops up. Nil for regular imports.
	BatchID *id.ID `db:"batch_id" json:"batchId,omitempty"`
}

// NewImportTransaction creates a draft with no lines.
func NewImportTransaction(supplierID, storeID, staffID id.ID) *ImportTransaction {
	return &ImportTransaction{
		Document:   entity.NewDocument(),
		Status:     StatusDraft,
		SupplierID: supplierID,
		StoreID:    storeID,
		StaffID:    staffID,
		Lines:      make([]LineItem, 0),
	}
}

// NewLineInput carries the caller-supplied fields for a new line.
type NewLineInput struct {
	ProductID       id.ID
	ProductCode     string
	ProductName     string
	Unit            units.Unit
	Quantity        int64
	UnitImportPrice types.MinorUnits
	UnitSalePrice   types.MinorUnits
	ZoneIDs         []id.ID
	ExpireDate      *time.Time
	BatchID         *id.ID
}

// AddLine appends a line and recalculates totals.
func (t *ImportTransaction) AddLine(calc *Calculator, in NewLineInput) (*LineItem, error) {
	if err := t.canMutateLines(); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if in.UnitImportPrice < 0 || in.UnitSalePrice < 0 {
		return nil, apperror.NewValidation("price must not be negative").
			WithDetail("field", "unitImportPrice")
	}
	if in.ExpireDate != nil && in.ExpireDate.Before(startOfToday()) {
		return nil, apperror.NewValidation("expire date must not be in the past").
			WithDetail("field", "expireDate")
	}

	line := LineItem{
		LineID:          id.New(),
		LineNo:          len(t.Lines) + 1,
		ProductID:       in.ProductID,
		ProductCode:     in.ProductCode,
		ProductName:     in.ProductName,
		Unit:            in.Unit,
		Quantity:        in.Quantity,
		UnitImportPrice: in.UnitImportPrice,
		UnitSalePrice:   in.UnitSalePrice,
		ZoneIDs:         in.ZoneIDs,
		ExpireDate:      in.ExpireDate,
		BatchID:         in.BatchID,
	}
	if err := recomputeLine(calc, &line); err != nil {
		return nil, err
	}

	t.Lines = append(t.Lines, line)
	t.recalculateTotals(calc)
	return &t.Lines[len(t.Lines)-1], nil
}

// SetLineUnit changes the display unit of a line. The display quantity
// resets to 1; callers re-enter the quantity in the new unit.
func (t *ImportTransaction) SetLineUnit(calc *Calculator, lineID id.ID, unit units.Unit) error {
	if err := t.canMutateLines(); err != nil {
		return err
	}
	line, err := t.findLine(lineID)
	if err != nil {
		return err
	}
	if !calc.Units().IsRegistered(unit) {
		return apperror.NewInvalidUnit(string(unit))
	}

	line.Unit = unit
	line.Quantity = 1
	if err := recomputeLine(calc, line); err != nil {
		return err
	}
	t.recalculateTotals(calc)
	return nil
}

// SetLineQuantity changes the display quantity of a line.
func (t *ImportTransaction) SetLineQuantity(calc *Calculator, lineID id.ID, quantity int64) error {
	if err := t.canMutateLines(); err != nil {
		return err
	}
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	line, err := t.findLine(lineID)
	if err != nil {
		return err
	}

	line.Quantity = quantity
	if err := recomputeLine(calc, line); err != nil {
		return err
	}
	t.recalculateTotals(calc)
	return nil
}

// SetLinePrices changes per-base-unit prices of a line.
func (t *ImportTransaction) SetLinePrices(calc *Calculator, lineID id.ID, importPrice, salePrice types.MinorUnits) error {
	if err := t.canMutateLines(); err != nil {
		return err
	}
	if importPrice < 0 || salePrice < 0 {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "unitImportPrice")
	}
	line, err := t.findLine(lineID)
	if err != nil {
		return err
	}

	line.UnitImportPrice = importPrice
	line.UnitSalePrice = salePrice
	if err := recomputeLine(calc, line); err != nil {
		return err
	}
	t.recalculateTotals(calc)
	return nil
}

// SetLineZones replaces the storage placement set of a line.
func (t *ImportTransaction) SetLineZones(lineID id.ID, zoneIDs []id.ID) error {
	if err := t.canMutateLines(); err != nil {
		return err
	}
	line, err := t.findLine(lineID)
	if err != nil {
		return err
	}
	line.ZoneIDs = zoneIDs
	return nil
}

// SetLineExpireDate sets or clears the optional expire date.
// Past dates are rejected.
func (t *ImportTransaction) SetLineExpireDate(lineID id.ID, expireDate *time.Time) error {
	if err := t.canMutateLines(); err != nil {
		return err
	}
	if expireDate != nil && expireDate.Before(startOfToday()) {
		return apperror.NewValidation("expire date must not be in the past").
			WithDetail("field", "expireDate")
	}
	line, err := t.findLine(lineID)
	if err != nil {
		return err
	}
	line.ExpireDate = expireDate
	return nil
}

// RemoveLine deletes a line, renumbers the rest, and recalculates totals.
func (t *ImportTransaction) RemoveLine(calc *Calculator, lineID id.ID) error {
	if err := t.canMutateLines(); err != nil {
		return err
	}
	for i := range t.Lines {
		if t.Lines[i].LineID == lineID {
			t.Lines = append(t.Lines[:i], t.Lines[i+1:]...)
			for j := range t.Lines {
				t.Lines[j].LineNo = j + 1
			}
			t.recalculateTotals(calc)
			return nil
		}
	}
	return apperror.NewNotFound("line item", lineID.String())
}

// SetPaidAmount updates the paid amount. Not clamped to TotalAmount.
func (t *ImportTransaction) SetPaidAmount(paid types.MinorUnits) error {
	if err := t.canMutateLines(); err != nil {
		return err
	}
	if paid < 0 {
		return apperror.NewValidation("paid amount must not be negative").
			WithDetail("field", "paidAmount")
	}
	t.PaidAmount = paid
	return nil
}

// Remaining returns TotalAmount - PaidAmount. Negative means overpayment.
func (t *ImportTransaction) Remaining() types.MinorUnits {
	return t.TotalAmount - t.PaidAmount
}

func (t *ImportTransaction) findLine(lineID id.ID) (*LineItem, error) {
	for i := range t.Lines {
		if t.Lines[i].LineID == lineID {
			return &t.Lines[i], nil
		}
	}
	return nil, apperror.NewNotFound("line item", lineID.String())
}

func (t *ImportTransaction) canMutateLines() error {
	if t.Status.IsTerminal() {
		return apperror.NewConflict("transaction is finalized and cannot be modified").
			WithDetail("status", string(t.Status))
	}
	return nil
}

func recomputeLine(calc *Calculator, line *LineItem) error {
	baseQty, err := calc.Units().ToBaseQuantity(line.Quantity, line.Unit)
	if err != nil {
		return err
	}
	line.BaseQuantity = baseQty
	line.LineTotal = line.UnitImportPrice * types.MinorUnits(baseQty)
	return nil
}

// recalculateTotals updates TotalAmount from lines.
func (t *ImportTransaction) recalculateTotals(calc *Calculator) {
	t.TotalAmount = calc.ComputeTransactionTotal(t.Lines)
}

// Validate implements entity.Validatable. This is the draft-level check:
// a draft may still be missing supplier, store, lines, and zones.
func (t *ImportTransaction) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("status", string(t.Status))
	}
	if t.PaidAmount < 0 {
		return apperror.NewValidation("paid amount must not be negative").
			WithDetail("field", "paidAmount")
	}

	for i, line := range t.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitImportPrice < 0 || line.UnitSalePrice < 0 {
			return apperror.NewValidation("price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// ValidateForSubmission applies the commit-boundary guards in their
// fixed order: supplier, store, lines, zones. The first failing guard
// wins; guards are not aggregated.
func (t *ImportTransaction) ValidateForSubmission(ctx context.Context) error {
	if id.IsNil(t.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if id.IsNil(t.StoreID) {
		return apperror.NewValidation("store is required").
			WithDetail("field", "storeId")
	}
	if len(t.Lines) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "lines")
	}
	if err := t.Validate(ctx); err != nil {
		return err
	}
	return ValidateZoneAllocation(t.Lines)
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
