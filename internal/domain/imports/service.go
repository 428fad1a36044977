package imports

import (
	"context"
	"fmt"
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/sequence"
	"restock/internal/core/tx"
	"restock/internal/core/types"
	"restock/internal/domain"
	"restock/pkg/logger"
)

// CodePrefix is the sequence prefix for import transaction codes.
const CodePrefix = "IMP"

// DebtSettler applies debt deltas to the supplier ledger.
type DebtSettler interface {
	// SettleOnComplete adds (total - paid) to the supplier's debt.
	SettleOnComplete(ctx context.Context, supplierID id.ID, total, paid types.MinorUnits) error

	// Reverse subtracts a previously applied (total - paid) delta.
	Reverse(ctx context.Context, supplierID id.ID, total, paid types.MinorUnits) error
}

// BatchCreator materializes stock batches for a completed transaction.
type BatchCreator interface {
	CreateForImport(ctx context.Context, doc *ImportTransaction) error
}

// ZoneChecker verifies zone ownership against the store directory.
type ZoneChecker interface {
	// ZoneIDsForStore returns the set of zone IDs belonging to a store.
	ZoneIDsForStore(ctx context.Context, storeID id.ID) (map[id.ID]struct{}, error)
}

// Service provides the import transaction workflow.
type Service struct {
	repo      Repository
	txManager tx.Manager
	sequence  sequence.Generator
	calc      *Calculator
	debt      DebtSettler
	batches   BatchCreator
	zones     ZoneChecker
	hooks     *domain.HookRegistry[*ImportTransaction]
}

// NewService creates the import transaction service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	seq sequence.Generator,
	calc *Calculator,
	debt DebtSettler,
	batches BatchCreator,
	zones ZoneChecker,
) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		sequence:  seq,
		calc:      calc,
		debt:      debt,
		batches:   batches,
		zones:     zones,
		hooks:     domain.NewHookRegistry[*ImportTransaction](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*ImportTransaction] {
	return s.hooks
}

// Calculator returns the calculator used for line math.
func (s *Service) Calculator() *Calculator {
	return s.calc
}

// Create persists a new draft with the supplied line items.
// No stock or debt effect. Code is issued if not already assigned.
func (s *Service) Create(ctx context.Context, doc *ImportTransaction) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	doc.Status = StatusDraft
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Code == "" {
		cfg := sequence.DefaultConfig(CodePrefix)
		code, err := s.sequence.NextCode(ctx, cfg, sequence.DefaultOptions(), time.Now())
		if err != nil {
			return apperror.NewExternalService("sequence", err)
		}
		doc.Code = code
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "import transaction created",
		"id", doc.ID,
		"code", doc.Code)

	return nil
}

// SaveDraft re-saves an edited draft. Zones are not required here.
func (s *Service) SaveDraft(ctx context.Context, doc *ImportTransaction) error {
	stored, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if _, err := NextStatus(stored.Status, EventSaveDraft); err != nil {
		return err
	}

	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	doc.Status = StatusDraft
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	doc.Touch()

	if err := s.hooks.RunAfterUpdate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return nil
}

// SubmitForApproval moves a draft to PENDING_APPROVAL, persisting any
// edits. Guards run in fixed order (supplier, store, lines, zones); the
// first failure is reported alone.
func (s *Service) SubmitForApproval(ctx context.Context, doc *ImportTransaction) error {
	stored, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	next, err := NextStatus(stored.Status, EventSubmit)
	if err != nil {
		return err
	}

	if err := doc.ValidateForSubmission(ctx); err != nil {
		return err
	}
	if err := s.checkZoneOwnership(ctx, doc); err != nil {
		return err
	}

	doc.Status = next

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Keep the in-memory copy in step with the version bump done in SQL.
	doc.Touch()

	logger.Info(ctx, "import transaction submitted for approval",
		"id", doc.ID,
		"code", doc.Code)
	return nil
}

// Complete approves a pending transaction: status goes to COMPLETE and
// stock batches are created, both in one database transaction. Supplier
// debt settlement then runs OUTSIDE that transaction against the party
// ledger. If settlement fails the transaction stays COMPLETE and the
// caller receives COMPLETED_UNSETTLED so operators can reconcile.
func (s *Service) Complete(ctx context.Context, docID id.ID) (*ImportTransaction, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(doc.Status, EventComplete)
	if err != nil {
		return nil, err
	}

	// Commit boundary: zone allocation is checked again.
	if err := doc.ValidateForSubmission(ctx); err != nil {
		return nil, err
	}

	doc.Status = next
	doc.DebtApplied = false

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if err := s.batches.CreateForImport(ctx, doc); err != nil {
			return fmt.Errorf("create batches: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	doc.Touch()

	// Settlement runs after the commit. A failure here leaves the
	// system partially applied: status COMPLETE, debt untouched.
	if err := s.debt.SettleOnComplete(ctx, doc.SupplierID, doc.TotalAmount, doc.PaidAmount); err != nil {
		logger.Error(ctx, "debt settlement failed after completion",
			"id", doc.ID,
			"supplier_id", doc.SupplierID,
			"error", err)
		return doc, apperror.NewCompletedUnsettled(doc.ID.String(), doc.SupplierID.String(), err)
	}

	doc.DebtApplied = true
	if err := s.repo.MarkDebtApplied(ctx, doc.ID); err != nil {
		logger.Warn(ctx, "failed to record debt settlement flag",
			"id", doc.ID,
			"error", err)
	}

	logger.Info(ctx, "import transaction completed",
		"id", doc.ID,
		"code", doc.Code,
		"total", doc.TotalAmount,
		"paid", doc.PaidAmount)

	return doc, nil
}

// Cancel voids a draft or pending transaction. No stock effect. Debt is
// never applied before completion; if the flag is somehow set, the
// settlement is reversed before cancelling.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*ImportTransaction, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(doc.Status, EventCancel)
	if err != nil {
		return nil, err
	}

	if doc.DebtApplied {
		logger.Warn(ctx, "cancelling a transaction with debt already applied",
			"id", doc.ID,
			"supplier_id", doc.SupplierID)
		if err := s.debt.Reverse(ctx, doc.SupplierID, doc.TotalAmount, doc.PaidAmount); err != nil {
			return nil, apperror.NewExternalService("debt settlement", err)
		}
		doc.DebtApplied = false
	}

	doc.Status = next

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	doc.Touch()

	logger.Info(ctx, "import transaction cancelled",
		"id", doc.ID,
		"code", doc.Code)
	return doc, nil
}

// GetByID retrieves a transaction with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*ImportTransaction, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines
	return doc, nil
}

// List retrieves transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ImportTransaction], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) checkZoneOwnership(ctx context.Context, doc *ImportTransaction) error {
	if s.zones == nil {
		return nil
	}
	storeZones, err := s.zones.ZoneIDsForStore(ctx, doc.StoreID)
	if err != nil {
		return apperror.NewExternalService("store zones", err)
	}
	return ValidateZoneOwnership(doc.Lines, storeZones)
}
