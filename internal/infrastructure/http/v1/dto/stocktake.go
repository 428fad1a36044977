package dto

import (
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/imports"
	"restock/internal/domain/stocktake"
)

// BalanceDraftRequest builds a balance-import draft from stocktake surplus.
type BalanceDraftRequest struct {
	StaffID string `json:"staffId,omitempty"`
}

// BalanceLineRequest is one surplus line to apply: the batch to top up
// and the surplus quantity in base units.
type BalanceLineRequest struct {
	BatchID  string `json:"batchId" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}

// BalanceApplyRequest confirms a balance run.
type BalanceApplyRequest struct {
	Lines []BalanceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToLines converts the request to domain line items.
func (r *BalanceApplyRequest) ToLines() ([]imports.LineItem, error) {
	lines := make([]imports.LineItem, len(r.Lines))
	for i, line := range r.Lines {
		batchID, err := parseID(line.BatchID, "batchId")
		if err != nil {
			return nil, err
		}
		lines[i] = imports.LineItem{
			LineNo:       i + 1,
			BaseQuantity: types.Quantity(line.Quantity),
			BatchID:      &batchID,
		}
	}
	return lines, nil
}

// BalanceItemResult is the per-item outcome in API responses.
type BalanceItemResult struct {
	BatchID string `json:"batchId,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// BalanceReportResponse reports a balance run.
type BalanceReportResponse struct {
	StocktakeID string              `json:"stocktakeId"`
	Applied     int                 `json:"applied"`
	Failed      int                 `json:"failed"`
	Results     []BalanceItemResult `json:"results"`
}

// FromBalanceReport converts a domain report to a response DTO.
func FromBalanceReport(report *stocktake.BalanceReport) *BalanceReportResponse {
	resp := &BalanceReportResponse{
		StocktakeID: report.StocktakeID.String(),
		Applied:     report.Applied,
		Failed:      report.Failed,
		Results:     make([]BalanceItemResult, len(report.Results)),
	}
	for i, result := range report.Results {
		item := BalanceItemResult{OK: result.OK()}
		if !id.IsNil(result.BatchID) {
			item.BatchID = result.BatchID.String()
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		resp.Results[i] = item
	}
	return resp
}
