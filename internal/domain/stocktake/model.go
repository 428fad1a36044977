// Package stocktake provides stocktake surplus data and the balance
// reconciliation path that folds counted surplus back into stock.
package stocktake

import (
	"restock/internal/core/id"
	"restock/internal/core/types"
)

// SurplusItem is one positive counting discrepancy: the physical count
// exceeded the system quantity for an existing batch.
type SurplusItem struct {
	ProductID id.ID `db:"product_id" json:"productId"`

	// BatchID identifies the on-hand batch the surplus belongs to.
	// Reconciliation tops up this batch, it never creates a new one.
	BatchID id.ID `db:"batch_id" json:"batchId"`

	// Real is the counted quantity, Remain the system quantity
	Real   types.Quantity `db:"real" json:"real"`
	Remain types.Quantity `db:"remain" json:"remain"`

	// ZoneIDs is where the batch was counted, if recorded
	ZoneIDs []id.ID `db:"zone_ids" json:"zoneIds,omitempty"`
}

// Diff returns real minus remain. Only positive diffs participate in
// balance reconciliation.
func (s SurplusItem) Diff() types.Quantity {
	return s.Real - s.Remain
}

// Surplus is the surplus slice of one stocktake, scoped to the store the
// stocktake ran in. The store is locked for the balance flow.
type Surplus struct {
	StocktakeID id.ID         `json:"stocktakeId"`
	StoreID     id.ID         `json:"storeId"`
	Items       []SurplusItem `json:"items"`
}

// PositiveItems returns only the items with diff > 0.
func (s Surplus) PositiveItems() []SurplusItem {
	out := make([]SurplusItem, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Diff() > 0 {
			out = append(out, item)
		}
	}
	return out
}
