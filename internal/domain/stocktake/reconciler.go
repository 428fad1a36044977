package stocktake

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/domain/imports"
	"restock/internal/domain/units"
	"restock/pkg/logger"
)

// ItemResult is the per-item outcome of a balance run.
type ItemResult struct {
	BatchID id.ID `json:"batchId"`
	Err     error `json:"-"`
}

// OK reports whether the item was applied.
func (r ItemResult) OK() bool {
	return r.Err == nil
}

// BalanceReport accumulates the outcome of a balance run. Batch updates
// are deliberately NOT atomic across the set: one failed update does not
// abort the rest.
type BalanceReport struct {
	StocktakeID id.ID        `json:"stocktakeId"`
	Results     []ItemResult `json:"results"`
	Applied     int          `json:"applied"`
	Failed      int          `json:"failed"`
}

// Reconciler derives a synthetic balance import from stocktake surplus
// and, on confirmation, tops up existing batches.
type Reconciler struct {
	repo    Repository
	batches BatchUpdater
	calc    *imports.Calculator
}

// NewReconciler creates the balance reconciler.
func NewReconciler(repo Repository, batches BatchUpdater, calc *imports.Calculator) *Reconciler {
	return &Reconciler{repo: repo, batches: batches, calc: calc}
}

// BuildDraft creates an unsaved balance-import draft from a stocktake's
// surplus: one line per positive-diff item, quantity = diff in base
// units, prices zeroed pending user entry, zones seeded from the count
// record. The store comes from the stocktake and is not user-editable.
func (r *Reconciler) BuildDraft(ctx context.Context, stocktakeID, staffID id.ID) (*imports.ImportTransaction, error) {
	surplus, err := r.repo.GetSurplus(ctx, stocktakeID)
	if err != nil {
		return nil, err
	}

	items := surplus.PositiveItems()
	if len(items) == 0 {
		return nil, apperror.NewValidation("stocktake has no surplus to balance").
			WithDetail("stocktakeId", stocktakeID.String())
	}

	doc := imports.NewImportTransaction(id.Nil(), surplus.StoreID, staffID)
	doc.Balance = true

	for _, item := range items {
		batchID := item.BatchID
		_, err := doc.AddLine(r.calc, imports.NewLineInput{
			ProductID: item.ProductID,
			Unit:      units.Piece,
			Quantity:  int64(item.Diff()),
			ZoneIDs:   item.ZoneIDs,
			BatchID:   &batchID,
		})
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// ApplyBalance tops up each surplus item's existing batch by its line
// quantity. The loop is best-effort: a failure on one batch is recorded
// and the remaining items are still processed. On full or partial
// success the stocktake is marked balanced.
func (r *Reconciler) ApplyBalance(ctx context.Context, stocktakeID id.ID, lines []imports.LineItem) (*BalanceReport, error) {
	if len(lines) == 0 {
		return nil, apperror.NewValidation("no line items to balance").
			WithDetail("stocktakeId", stocktakeID.String())
	}

	report := &BalanceReport{StocktakeID: stocktakeID}

	for i, line := range lines {
		if line.BatchID == nil {
			report.Results = append(report.Results, ItemResult{
				Err: apperror.NewValidation("line has no batch reference").
					WithDetail("itemIndex", i),
			})
			report.Failed++
			continue
		}

		result := ItemResult{BatchID: *line.BatchID}
		if _, err := r.batches.AddToRemain(ctx, *line.BatchID, line.BaseQuantity); err != nil {
			result.Err = err
			report.Failed++
			logger.Error(ctx, "balance update failed for batch",
				"stocktake_id", stocktakeID,
				"batch_id", *line.BatchID,
				"error", err)
		} else {
			report.Applied++
		}
		report.Results = append(report.Results, result)
	}

	if report.Applied > 0 {
		if err := r.repo.MarkBalanced(ctx, stocktakeID); err != nil {
			return report, apperror.NewExternalService("stocktake", err)
		}
	}

	logger.Info(ctx, "balance reconciliation finished",
		"stocktake_id", stocktakeID,
		"applied", report.Applied,
		"failed", report.Failed)

	return report, nil
}
