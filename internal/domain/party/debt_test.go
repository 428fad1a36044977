package party

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain"
)

type fakePartyRepo struct {
	mu      sync.Mutex
	parties map[id.ID]*Party
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{parties: make(map[id.ID]*Party)}
}

func (r *fakePartyRepo) add(p *Party) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parties[p.ID] = p
}

func (r *fakePartyRepo) Create(ctx context.Context, p *Party) error {
	r.add(p)
	return nil
}

func (r *fakePartyRepo) GetByID(ctx context.Context, partyID id.ID) (*Party, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parties[partyID]
	if !ok {
		return nil, apperror.NewNotFound("party", partyID.String())
	}
	copied := *p
	return &copied, nil
}

func (r *fakePartyRepo) GetByCode(ctx context.Context, code string) (*Party, error) {
	return nil, apperror.NewNotFound("party", code)
}

func (r *fakePartyRepo) Update(ctx context.Context, p *Party) error {
	r.add(p)
	return nil
}

func (r *fakePartyRepo) SetDeletionMark(ctx context.Context, partyID id.ID, marked bool) error {
	return nil
}

func (r *fakePartyRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error) {
	return domain.ListResult[*Party]{}, nil
}

func (r *fakePartyRepo) Exists(ctx context.Context, partyID id.ID) (bool, error) {
	_, err := r.GetByID(ctx, partyID)
	return err == nil, nil
}

func (r *fakePartyRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (r *fakePartyRepo) ListSuppliers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error) {
	return domain.ListResult[*Party]{}, nil
}

func (r *fakePartyRepo) AdjustDebt(ctx context.Context, partyID id.ID, delta types.MinorUnits) (types.MinorUnits, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parties[partyID]
	if !ok {
		return 0, apperror.NewNotFound("party", partyID.String())
	}
	p.TotalDebt += delta
	return p.TotalDebt, nil
}

func newSupplierWithDebt(repo *fakePartyRepo, debt types.MinorUnits) *Party {
	s := NewSupplier("ACME Wholesale")
	s.TotalDebt = debt
	repo.add(s)
	return s
}

func TestSettleOnComplete_Underpayment(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)
	supplier := newSupplierWithDebt(repo, 100)

	err := svc.SettleOnComplete(context.Background(), supplier.ID, 500, 200)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(400), got.TotalDebt)
}

func TestSettleOnComplete_OverpaymentGoesNegative(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)
	supplier := newSupplierWithDebt(repo, 100)

	err := svc.SettleOnComplete(context.Background(), supplier.ID, 200, 500)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(-200), got.TotalDebt)
}

func TestSettleOnComplete_ZeroRemainderNotSpecialCased(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)
	supplier := newSupplierWithDebt(repo, 250)

	err := svc.SettleOnComplete(context.Background(), supplier.ID, 300, 300)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(250), got.TotalDebt)
}

func TestReverse_UndoesSettlement(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)
	supplier := newSupplierWithDebt(repo, 0)
	ctx := context.Background()

	require.NoError(t, svc.SettleOnComplete(ctx, supplier.ID, 500, 200))
	require.NoError(t, svc.Reverse(ctx, supplier.ID, 500, 200))

	got, err := repo.GetByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(0), got.TotalDebt)
}

func TestSettle_RejectsNonSupplier(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)

	customer := NewParty("Walk-in customer")
	customer.IsCustomer = true
	repo.add(customer)

	err := svc.SettleOnComplete(context.Background(), customer.ID, 100, 0)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestSettle_UnknownSupplier(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)

	err := svc.SettleOnComplete(context.Background(), id.New(), 100, 0)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSettle_ConcurrentCompletionsSerialize(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)
	supplier := newSupplierWithDebt(repo, 0)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = svc.SettleOnComplete(ctx, supplier.ID, 100, 40)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(workers*60), got.TotalDebt)
}

func TestReverseOnCancelAfterCompletion_NoOp(t *testing.T) {
	repo := newFakePartyRepo()
	svc := NewDebtService(repo)
	supplier := newSupplierWithDebt(repo, 123)

	err := svc.ReverseOnCancelAfterCompletion(context.Background(), supplier.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(123), got.TotalDebt)
}
