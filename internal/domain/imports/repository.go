package imports

import (
	"context"
	"time"

	"restock/internal/core/id"
	"restock/internal/domain"
)

// ListFilter contains filtering options for transaction lists.
type ListFilter struct {
	domain.ListFilter

	Status     *Status
	SupplierID *id.ID
	StoreID    *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
	Balance    *bool
}

// Repository defines persistence operations for import transactions.
type Repository interface {
	// Create inserts the document header
	Create(ctx context.Context, doc *ImportTransaction) error

	// Update modifies the header (with optimistic locking)
	Update(ctx context.Context, doc *ImportTransaction) error

	// GetByID retrieves the header without lines
	GetByID(ctx context.Context, docID id.ID) (*ImportTransaction, error)

	// GetLines retrieves the table part ordered by line_no
	GetLines(ctx context.Context, docID id.ID) ([]LineItem, error)

	// SaveLines replaces the table part
	SaveLines(ctx context.Context, docID id.ID, lines []LineItem) error

	// MarkDebtApplied flips the debt_applied flag after settlement.
	// Separate from Update so the post-commit write cannot collide with
	// the optimistic lock version bumped inside the completion tx.
	MarkDebtApplied(ctx context.Context, docID id.ID) error

	// List retrieves transactions with filtering and pagination
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*ImportTransaction], error)
}
