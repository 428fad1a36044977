package imports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/sequence"
	"restock/internal/core/types"
	"restock/internal/domain"
)

// --- In-memory fakes ---

type fakeRepo struct {
	docs  map[id.ID]ImportTransaction
	lines map[id.ID][]LineItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]ImportTransaction),
		lines: make(map[id.ID][]LineItem),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *ImportTransaction) error {
	if _, ok := r.docs[doc.ID]; ok {
		return apperror.NewDuplicate("import transaction", "id", doc.ID.String())
	}
	stored := *doc
	stored.Lines = nil
	r.docs[doc.ID] = stored
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, doc *ImportTransaction) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("import transaction", doc.ID.String())
	}
	stored := *doc
	stored.Lines = nil
	r.docs[doc.ID] = stored
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*ImportTransaction, error) {
	stored, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("import transaction", docID.String())
	}
	doc := stored
	return &doc, nil
}

func (r *fakeRepo) GetLines(ctx context.Context, docID id.ID) ([]LineItem, error) {
	return append([]LineItem(nil), r.lines[docID]...), nil
}

func (r *fakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []LineItem) error {
	r.lines[docID] = append([]LineItem(nil), lines...)
	return nil
}

func (r *fakeRepo) MarkDebtApplied(ctx context.Context, docID id.ID) error {
	stored, ok := r.docs[docID]
	if !ok {
		return apperror.NewNotFound("import transaction", docID.String())
	}
	stored.DebtApplied = true
	r.docs[docID] = stored
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ImportTransaction], error) {
	result := domain.ListResult[*ImportTransaction]{Limit: filter.Limit, Offset: filter.Offset}
	for docID := range r.docs {
		doc, _ := r.GetByID(ctx, docID)
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

// fakeTxManager snapshots repo state before fn and restores it when fn
// fails, mimicking a rollback.
type fakeTxManager struct {
	repo *fakeRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	docsBackup := make(map[id.ID]ImportTransaction, len(m.repo.docs))
	for k, v := range m.repo.docs {
		docsBackup[k] = v
	}
	linesBackup := make(map[id.ID][]LineItem, len(m.repo.lines))
	for k, v := range m.repo.lines {
		linesBackup[k] = append([]LineItem(nil), v...)
	}

	if err := fn(ctx); err != nil {
		m.repo.docs = docsBackup
		m.repo.lines = linesBackup
		return err
	}
	return nil
}

type fakeDebt struct {
	settleErr    error
	settleCalls  int
	reverseCalls int
	lastDelta    types.MinorUnits
}

func (d *fakeDebt) SettleOnComplete(ctx context.Context, supplierID id.ID, total, paid types.MinorUnits) error {
	d.settleCalls++
	if d.settleErr != nil {
		return d.settleErr
	}
	d.lastDelta = total - paid
	return nil
}

func (d *fakeDebt) Reverse(ctx context.Context, supplierID id.ID, total, paid types.MinorUnits) error {
	d.reverseCalls++
	d.lastDelta = -(total - paid)
	return nil
}

type fakeBatches struct {
	err   error
	calls int
}

func (b *fakeBatches) CreateForImport(ctx context.Context, doc *ImportTransaction) error {
	b.calls++
	return b.err
}

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	debt    *fakeDebt
	batches *fakeBatches
}

func newFixture() *fixture {
	repo := newFakeRepo()
	debt := &fakeDebt{}
	batches := &fakeBatches{}
	svc := NewService(
		repo,
		&fakeTxManager{repo: repo},
		&sequence.MockGenerator{},
		newTestCalc(),
		debt,
		batches,
		nil,
	)
	return &fixture{svc: svc, repo: repo, debt: debt, batches: batches}
}

func (f *fixture) createPending(t *testing.T) *ImportTransaction {
	t.Helper()
	ctx := context.Background()

	doc := newTestTransaction()
	_, err := doc.AddLine(f.svc.Calculator(), pieceLine(5, 1000))
	require.NoError(t, err)
	require.NoError(t, doc.SetLineZones(doc.Lines[0].LineID, []id.ID{id.New()}))
	require.NoError(t, doc.SetPaidAmount(3000))

	require.NoError(t, f.svc.Create(ctx, doc))
	require.NoError(t, f.svc.SubmitForApproval(ctx, doc))
	return doc
}

// --- Tests ---

func TestService_Create_AssignsCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc := newTestTransaction()
	_, err := doc.AddLine(f.svc.Calculator(), pieceLine(1, 100))
	require.NoError(t, err)

	require.NoError(t, f.svc.Create(ctx, doc))
	assert.NotEmpty(t, doc.Code)
	assert.Contains(t, doc.Code, CodePrefix)
	assert.Equal(t, StatusDraft, doc.Status)

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Code, stored.Code)
	assert.Len(t, stored.Lines, 1)
}

func TestService_Create_KeepsAssignedCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc := newTestTransaction()
	doc.Code = "IMP-2026-00042"
	require.NoError(t, f.svc.Create(ctx, doc))
	assert.Equal(t, "IMP-2026-00042", doc.Code)
}

func TestService_Create_SequenceFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	boom := errors.New("sequence down")
	f.svc.sequence = &sequence.MockGenerator{
		NextCodeFunc: func(context.Context, sequence.Config, *sequence.Options, time.Time) (string, error) {
			return "", boom
		},
	}

	doc := newTestTransaction()
	err := f.svc.Create(ctx, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeExternalService, appErr.Code)

	// Nothing persisted.
	_, err = f.svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_SubmitForApproval_RequiresZones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc := newTestTransaction()
	_, err := doc.AddLine(f.svc.Calculator(), pieceLine(1, 100))
	require.NoError(t, err)
	require.NoError(t, f.svc.Create(ctx, doc))

	err = f.svc.SubmitForApproval(ctx, doc)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "MISSING_ZONE", appErr.Details["reason"])

	// Stored transaction unchanged.
	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, stored.Status)
}

func TestService_SaveDraft_NoZonesRequired(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc := newTestTransaction()
	_, err := doc.AddLine(f.svc.Calculator(), pieceLine(1, 100))
	require.NoError(t, err)
	require.NoError(t, f.svc.Create(ctx, doc))

	doc.Note = "waiting for zone assignment"
	require.NoError(t, f.svc.SaveDraft(ctx, doc))

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "waiting for zone assignment", stored.Note)
	assert.Equal(t, StatusDraft, stored.Status)
}

func TestService_Complete_HappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.createPending(t)

	completed, err := f.svc.Complete(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, completed.Status)
	assert.Equal(t, 1, f.batches.calls)
	assert.Equal(t, 1, f.debt.settleCalls)
	// total 5000, paid 3000
	assert.Equal(t, types.MinorUnits(2000), f.debt.lastDelta)

	stored, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, stored.Status)
	assert.True(t, stored.DebtApplied)
}

func TestService_Complete_DebtFailureIsSurfacedButStatusStands(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.createPending(t)

	f.debt.settleErr = errors.New("ledger unavailable")

	completed, err := f.svc.Complete(ctx, doc.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCompletedUnsettled(err))
	require.NotNil(t, completed)

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, doc.ID.String(), appErr.Details["transaction_id"])
	assert.Equal(t, doc.SupplierID.String(), appErr.Details["supplier_id"])

	// Batches were created and status committed; only settlement failed.
	assert.Equal(t, 1, f.batches.calls)
	stored, getErr := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusComplete, stored.Status)
	assert.False(t, stored.DebtApplied)
}

func TestService_Complete_BatchFailureRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.createPending(t)

	f.batches.err = errors.New("stock register down")

	_, err := f.svc.Complete(ctx, doc.ID)
	require.Error(t, err)
	assert.Equal(t, 0, f.debt.settleCalls)

	// Rolled back: still pending.
	stored, getErr := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusPendingApproval, stored.Status)
}

func TestService_Complete_RejectedFromDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc := newTestTransaction()
	_, err := doc.AddLine(f.svc.Calculator(), pieceLine(1, 100))
	require.NoError(t, err)
	require.NoError(t, doc.SetLineZones(doc.Lines[0].LineID, []id.ID{id.New()}))
	require.NoError(t, f.svc.Create(ctx, doc))

	_, err = f.svc.Complete(ctx, doc.ID)
	assert.True(t, apperror.IsInvalidTransition(err))
	assert.Equal(t, 0, f.batches.calls)
}

func TestService_Cancel_FromDraftAndPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft := newTestTransaction()
	require.NoError(t, f.svc.Create(ctx, draft))
	cancelled, err := f.svc.Cancel(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, f.debt.reverseCalls)

	pending := f.createPending(t)
	cancelled, err = f.svc.Cancel(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestService_Cancel_ReversesIfDebtSomehowApplied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.createPending(t)

	// Should never happen pre-completion; the guard must reverse it.
	require.NoError(t, f.repo.MarkDebtApplied(ctx, doc.ID))

	cancelled, err := f.svc.Cancel(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.debt.reverseCalls)
	assert.False(t, cancelled.DebtApplied)
}

func TestService_Cancel_RejectedWhenTerminal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.createPending(t)

	_, err := f.svc.Complete(ctx, doc.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, doc.ID)
	assert.True(t, apperror.IsInvalidTransition(err))

	stored, getErr := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusComplete, stored.Status)
}
