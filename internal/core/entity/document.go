// Package entity provides core domain entity bases.
package entity

import (
	"context"
	"time"

	"restock/internal/core/apperror"
)

// Document is the base type for business documents.
// Examples: ImportTransaction, Stocktake.
type Document struct {
	BaseDocument

	// Code is the document code (sequential, externally issued,
	// immutable once assigned)
	Code string `db:"code" json:"code"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Note is an optional user note
	Note string `db:"note" json:"note,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
