package batches

import (
	"context"
	"fmt"

	"restock/internal/core/entity"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/imports"
	"restock/pkg/logger"
)

// Service materializes and tops up stock batches.
type Service struct {
	repo Repository
}

// NewService creates the batch service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateForImport creates one batch per line of a completed import
// transaction. Balance-import lines carry a BatchID and top up the
// existing batch instead of creating a new one. Runs inside the
// completion transaction; any failure aborts the whole completion.
func (s *Service) CreateForImport(ctx context.Context, doc *imports.ImportTransaction) error {
	for _, line := range doc.Lines {
		if line.BatchID != nil {
			if _, err := s.repo.AddToRemain(ctx, *line.BatchID, line.BaseQuantity); err != nil {
				return fmt.Errorf("top up batch %s: %w", line.BatchID, err)
			}
			continue
		}

		batch := &Batch{
			BaseEntity:      entity.NewBaseEntity(),
			ProductID:       line.ProductID,
			StoreID:         doc.StoreID,
			ImportID:        doc.ID,
			LineID:          line.LineID,
			ImportPrice:     line.UnitImportPrice,
			SalePrice:       line.UnitSalePrice,
			ReceivedAt:      doc.Date,
			ExpireDate:      line.ExpireDate,
			InitialQuantity: line.BaseQuantity,
			RemainQuantity:  line.BaseQuantity,
			ZoneIDs:         line.ZoneIDs,
		}
		if err := batch.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, batch); err != nil {
			return fmt.Errorf("create batch for line %d: %w", line.LineNo, err)
		}
	}

	logger.Info(ctx, "batches created for import",
		"import_id", doc.ID,
		"lines", len(doc.Lines))
	return nil
}

// AddToRemain adds delta base units to a batch's remaining quantity.
func (s *Service) AddToRemain(ctx context.Context, batchID id.ID, delta types.Quantity) (types.Quantity, error) {
	return s.repo.AddToRemain(ctx, batchID, delta)
}

// GetByID retrieves a batch.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	return s.repo.GetByID(ctx, batchID)
}

// ListByImport returns the batches an import transaction produced.
func (s *Service) ListByImport(ctx context.Context, importID id.ID) ([]*Batch, error) {
	return s.repo.ListByImport(ctx, importID)
}

// Ensure the service satisfies the import workflow contract.
var _ imports.BatchCreator = (*Service)(nil)
