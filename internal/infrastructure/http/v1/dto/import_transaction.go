package dto

import (
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/imports"
	"restock/internal/domain/units"
)

// --- Request DTOs ---

// ImportLineRequest represents a line in create/update requests.
// Prices are per base unit, in minor units.
type ImportLineRequest struct {
	ProductID       string     `json:"productId" binding:"required"`
	ProductCode     string     `json:"productCode,omitempty"`
	ProductName     string     `json:"productName,omitempty"`
	Unit            string     `json:"unit,omitempty"`
	Quantity        int64      `json:"quantity" binding:"required,gt=0"`
	UnitImportPrice int64      `json:"unitImportPrice" binding:"gte=0"`
	UnitSalePrice   int64      `json:"unitSalePrice" binding:"gte=0"`
	ZoneIDs         []string   `json:"zoneIds,omitempty"`
	ExpireDate      *time.Time `json:"expireDate,omitempty"`
	BatchID         *string    `json:"batchId,omitempty"`
}

func (r *ImportLineRequest) toInput() (imports.NewLineInput, error) {
	productID, err := parseID(r.ProductID, "productId")
	if err != nil {
		return imports.NewLineInput{}, err
	}

	zoneIDs, err := parseIDs(r.ZoneIDs, "zoneIds")
	if err != nil {
		return imports.NewLineInput{}, err
	}

	var batchID *id.ID
	if r.BatchID != nil {
		parsed, err := parseID(*r.BatchID, "batchId")
		if err != nil {
			return imports.NewLineInput{}, err
		}
		batchID = &parsed
	}

	unit := units.Unit(r.Unit)
	if r.Unit == "" {
		unit = units.Piece
	}

	return imports.NewLineInput{
		ProductID:       productID,
		ProductCode:     r.ProductCode,
		ProductName:     r.ProductName,
		Unit:            unit,
		Quantity:        r.Quantity,
		UnitImportPrice: types.MinorUnits(r.UnitImportPrice),
		UnitSalePrice:   types.MinorUnits(r.UnitSalePrice),
		ZoneIDs:         zoneIDs,
		ExpireDate:      r.ExpireDate,
		BatchID:         batchID,
	}, nil
}

// CreateImportTransactionRequest creates a draft. Supplier, store and
// lines may be incomplete at this stage; they are enforced on submit.
type CreateImportTransactionRequest struct {
	SupplierID string              `json:"supplierId,omitempty"`
	StoreID    string              `json:"storeId,omitempty"`
	StaffID    string              `json:"staffId,omitempty"`
	Date       *time.Time          `json:"date,omitempty"`
	Note       string              `json:"note,omitempty"`
	PaidAmount int64               `json:"paidAmount,omitempty"`
	Lines      []ImportLineRequest `json:"lines,omitempty"`
}

// ToEntity converts the request to a domain draft.
func (r *CreateImportTransactionRequest) ToEntity(calc *imports.Calculator) (*imports.ImportTransaction, error) {
	supplierID, err := parseOptionalID(r.SupplierID, "supplierId")
	if err != nil {
		return nil, err
	}
	storeID, err := parseOptionalID(r.StoreID, "storeId")
	if err != nil {
		return nil, err
	}
	staffID, err := parseOptionalID(r.StaffID, "staffId")
	if err != nil {
		return nil, err
	}

	doc := imports.NewImportTransaction(supplierID, storeID, staffID)
	doc.Note = r.Note
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if err := doc.SetPaidAmount(types.MinorUnits(r.PaidAmount)); err != nil {
		return nil, err
	}

	for _, line := range r.Lines {
		input, err := line.toInput()
		if err != nil {
			return nil, err
		}
		if _, err := doc.AddLine(calc, input); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// UpdateImportTransactionRequest updates a draft. Nil fields are kept;
// a non-nil Lines slice replaces the table part entirely.
type UpdateImportTransactionRequest struct {
	SupplierID *string             `json:"supplierId,omitempty"`
	StoreID    *string             `json:"storeId,omitempty"`
	StaffID    *string             `json:"staffId,omitempty"`
	Date       *time.Time          `json:"date,omitempty"`
	Note       *string             `json:"note,omitempty"`
	PaidAmount *int64              `json:"paidAmount,omitempty"`
	Lines      []ImportLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing draft.
func (r *UpdateImportTransactionRequest) ApplyTo(doc *imports.ImportTransaction, calc *imports.Calculator) error {
	if r.SupplierID != nil {
		supplierID, err := parseID(*r.SupplierID, "supplierId")
		if err != nil {
			return err
		}
		doc.SupplierID = supplierID
	}
	if r.StoreID != nil {
		storeID, err := parseID(*r.StoreID, "storeId")
		if err != nil {
			return err
		}
		doc.StoreID = storeID
	}
	if r.StaffID != nil {
		staffID, err := parseID(*r.StaffID, "staffId")
		if err != nil {
			return err
		}
		doc.StaffID = staffID
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Note != nil {
		doc.Note = *r.Note
	}
	if r.PaidAmount != nil {
		if err := doc.SetPaidAmount(types.MinorUnits(*r.PaidAmount)); err != nil {
			return err
		}
	}

	if r.Lines != nil {
		doc.Lines = make([]imports.LineItem, 0, len(r.Lines))
		for _, line := range r.Lines {
			input, err := line.toInput()
			if err != nil {
				return err
			}
			if _, err := doc.AddLine(calc, input); err != nil {
				return err
			}
		}
	}

	return nil
}

// --- Response DTOs ---

// ImportLineResponse represents a line in API responses.
type ImportLineResponse struct {
	LineID          string     `json:"lineId"`
	LineNo          int        `json:"lineNo"`
	ProductID       string     `json:"productId"`
	ProductCode     string     `json:"productCode,omitempty"`
	ProductName     string     `json:"productName,omitempty"`
	Unit            string     `json:"unit"`
	Quantity        int64      `json:"quantity"`
	BaseQuantity    int64      `json:"baseQuantity"`
	UnitImportPrice int64      `json:"unitImportPrice"`
	UnitSalePrice   int64      `json:"unitSalePrice"`
	ZoneIDs         []string   `json:"zoneIds"`
	ExpireDate      *time.Time `json:"expireDate,omitempty"`
	LineTotal       int64      `json:"lineTotal"`
	BatchID         *string    `json:"batchId,omitempty"`
}

// ImportTransactionResponse represents an import transaction in API
// responses.
type ImportTransactionResponse struct {
	ID           string               `json:"id"`
	Code         string               `json:"code"`
	Date         time.Time            `json:"date"`
	Status       string               `json:"status"`
	SupplierID   string               `json:"supplierId"`
	StoreID      string               `json:"storeId"`
	StaffID      string               `json:"staffId"`
	Note         string               `json:"note,omitempty"`
	PaidAmount   int64                `json:"paidAmount"`
	TotalAmount  int64                `json:"totalAmount"`
	Remaining    int64                `json:"remaining"`
	DebtApplied  bool                 `json:"debtApplied"`
	Balance      bool                 `json:"balance"`
	Lines        []ImportLineResponse `json:"lines,omitempty"`
	DeletionMark bool                 `json:"deletionMark,omitempty"`
	Version      int                  `json:"version"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// FromImportTransaction converts a domain entity to a response DTO.
func FromImportTransaction(doc *imports.ImportTransaction) *ImportTransactionResponse {
	resp := &ImportTransactionResponse{
		ID:           doc.ID.String(),
		Code:         doc.Code,
		Date:         doc.Date,
		Status:       string(doc.Status),
		SupplierID:   doc.SupplierID.String(),
		StoreID:      doc.StoreID.String(),
		StaffID:      doc.StaffID.String(),
		Note:         doc.Note,
		PaidAmount:   int64(doc.PaidAmount),
		TotalAmount:  int64(doc.TotalAmount),
		Remaining:    int64(doc.Remaining()),
		DebtApplied:  doc.DebtApplied,
		Balance:      doc.Balance,
		DeletionMark: doc.DeletionMark,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}

	resp.Lines = make([]ImportLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		zoneIDs := make([]string, len(line.ZoneIDs))
		for j, zoneID := range line.ZoneIDs {
			zoneIDs[j] = zoneID.String()
		}
		var batchID *string
		if line.BatchID != nil {
			s := line.BatchID.String()
			batchID = &s
		}
		resp.Lines[i] = ImportLineResponse{
			LineID:          line.LineID.String(),
			LineNo:          line.LineNo,
			ProductID:       line.ProductID.String(),
			ProductCode:     line.ProductCode,
			ProductName:     line.ProductName,
			Unit:            string(line.Unit),
			Quantity:        line.Quantity,
			BaseQuantity:    int64(line.BaseQuantity),
			UnitImportPrice: int64(line.UnitImportPrice),
			UnitSalePrice:   int64(line.UnitSalePrice),
			ZoneIDs:         zoneIDs,
			ExpireDate:      line.ExpireDate,
			LineTotal:       int64(line.LineTotal),
			BatchID:         batchID,
		}
	}

	return resp
}

// --- ID parsing helpers ---

func parseID(s, field string) (id.ID, error) {
	parsed, err := id.Parse(s)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id format").
			WithDetail("field", field)
	}
	return parsed, nil
}

func parseOptionalID(s, field string) (id.ID, error) {
	if s == "" {
		return id.Nil(), nil
	}
	return parseID(s, field)
}

func parseIDs(values []string, field string) ([]id.ID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]id.ID, len(values))
	for i, v := range values {
		parsed, err := parseID(v, field)
		if err != nil {
			return nil, err
		}
		out[i] = parsed
	}
	return out, nil
}
