package imports

import (
	"time"

	"restock/internal/core/id"
	"restock/internal/core/types"
)

// EditSnapshot captures the editable state of a transaction at a point
// in time. The UI compares the current state against the last-persisted
// snapshot to decide whether a save action is enabled. This is a pure
// field-by-field equality check, not a change log.
type EditSnapshot struct {
	SupplierID id.ID
	StoreID    id.ID
	Note       string
	PaidAmount types.MinorUnits
	Lines      []LineItem
}

// TakeEditSnapshot captures the current editable state.
func (t *ImportTransaction) TakeEditSnapshot() EditSnapshot {
	lines := make([]LineItem, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = l
		lines[i].ZoneIDs = append([]id.ID(nil), l.ZoneIDs...)
		if l.ExpireDate != nil {
			d := *l.ExpireDate
			lines[i].ExpireDate = &d
		}
	}
	return EditSnapshot{
		SupplierID: t.SupplierID,
		StoreID:    t.StoreID,
		Note:       t.Note,
		PaidAmount: t.PaidAmount,
		Lines:      lines,
	}
}

// IsDirty reports whether the current state differs from the snapshot.
func (t *ImportTransaction) IsDirty(snap EditSnapshot) bool {
	if t.SupplierID != snap.SupplierID ||
		t.StoreID != snap.StoreID ||
		t.Note != snap.Note ||
		t.PaidAmount != snap.PaidAmount {
		return true
	}
	return !linesEqual(t.Lines, snap.Lines)
}

func linesEqual(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !lineEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func lineEqual(a, b LineItem) bool {
	if a.LineID != b.LineID ||
		a.ProductID != b.ProductID ||
		a.Unit != b.Unit ||
		a.Quantity != b.Quantity ||
		a.UnitImportPrice != b.UnitImportPrice ||
		a.UnitSalePrice != b.UnitSalePrice {
		return false
	}
	if !timePtrEqual(a.ExpireDate, b.ExpireDate) {
		return false
	}
	if len(a.ZoneIDs) != len(b.ZoneIDs) {
		return false
	}
	for i := range a.ZoneIDs {
		if a.ZoneIDs[i] != b.ZoneIDs[i] {
			return false
		}
	}
	return true
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
