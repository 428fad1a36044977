package dto

import (
	"restock/internal/domain/reports"
)

// PurchaseSummaryResponse wraps the per-supplier purchase report.
type PurchaseSummaryResponse struct {
	Rows []reports.SupplierPurchaseRow `json:"rows"`
}
