package party

import (
	"context"
	"sync"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/pkg/logger"
)

// DebtService applies signed debt deltas to the supplier ledger when an
// import transaction completes. Settlement is serialized per supplier so
// two concurrent completions against the same supplier cannot race.
type DebtService struct {
	repo Repository

	mu    sync.Mutex
	locks map[id.ID]*sync.Mutex
}

// NewDebtService creates the debt settlement service.
func NewDebtService(repo Repository) *DebtService {
	return &DebtService{
		repo:  repo,
		locks: make(map[id.ID]*sync.Mutex),
	}
}

func (s *DebtService) supplierLock(supplierID id.ID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[supplierID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[supplierID] = lock
	}
	return lock
}

// SettleOnComplete adds (total - paid) to the supplier's debt. A positive
// delta means the store owes the supplier more; a zero remainder is
// applied like any other delta, not special-cased.
func (s *DebtService) SettleOnComplete(ctx context.Context, supplierID id.ID, total, paid types.MinorUnits) error {
	return s.adjust(ctx, supplierID, total-paid)
}

// Reverse subtracts a previously applied (total - paid) delta.
func (s *DebtService) Reverse(ctx context.Context, supplierID id.ID, total, paid types.MinorUnits) error {
	return s.adjust(ctx, supplierID, -(total - paid))
}

// ReverseOnCancelAfterCompletion is intentionally a no-op. Cancellation
// is only reachable from DRAFT and PENDING_APPROVAL, before any debt is
// applied, so there is nothing to reverse on this path.
func (s *DebtService) ReverseOnCancelAfterCompletion(ctx context.Context, supplierID id.ID) error {
	logger.Warn(ctx, "reverse-on-cancel-after-completion invoked; no-op",
		"supplier_id", supplierID)
	return nil
}

func (s *DebtService) adjust(ctx context.Context, supplierID id.ID, delta types.MinorUnits) error {
	if id.IsNil(supplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	lock := s.supplierLock(supplierID)
	lock.Lock()
	defer lock.Unlock()

	supplier, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if !supplier.IsSupplier {
		return apperror.NewValidation("party is not a supplier").
			WithDetail("field", "supplierId").
			WithDetail("partyId", supplierID.String())
	}

	newDebt, err := s.repo.AdjustDebt(ctx, supplierID, delta)
	if err != nil {
		return apperror.NewExternalService("party ledger", err)
	}

	logger.Info(ctx, "supplier debt adjusted",
		"supplier_id", supplierID,
		"delta", delta,
		"total_debt", newDebt)
	return nil
}
