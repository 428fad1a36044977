package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreseq "restock/internal/core/sequence"
)

type fakeRow struct {
	val int64
	err error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

// fakeQuerier simulates the sys_sequences counter: every call adds the
// increment argument (1 for strict, range size for cached) and returns
// the new value.
type fakeQuerier struct {
	mu      sync.Mutex
	current int64
	calls   int
	err     error
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.calls++
	if q.err != nil {
		return &fakeRow{err: q.err}
	}

	var increment int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			increment = v
		}
	}
	q.current += increment
	return &fakeRow{val: q.current}
}

var testPeriod = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func TestNextCode_Strict(t *testing.T) {
	q := &fakeQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.DefaultConfig("IMP")

	code, err := svc.NextCode(ctx, cfg, nil, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, "IMP-2026-00001", code)

	code, err = svc.NextCode(ctx, cfg, nil, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, "IMP-2026-00002", code)

	assert.Equal(t, 2, q.calls)
}

func TestNextCode_Cached(t *testing.T) {
	q := &fakeQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.DefaultConfig("IMP")
	opts := &coreseq.Options{Strategy: coreseq.StrategyCached, RangeSize: 10}

	code, err := svc.NextCode(ctx, cfg, opts, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, "IMP-2026-00001", code)
	assert.EqualValues(t, 10, q.current, "first call reserves a full range")

	// served from memory, counter row untouched
	code, err = svc.NextCode(ctx, cfg, opts, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, "IMP-2026-00002", code)
	assert.EqualValues(t, 10, q.current)

	for i := 0; i < 8; i++ {
		_, err = svc.NextCode(ctx, cfg, opts, testPeriod)
		require.NoError(t, err)
	}

	// range exhausted, next call reserves 11..20
	code, err = svc.NextCode(ctx, cfg, opts, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, "IMP-2026-00011", code)
	assert.EqualValues(t, 20, q.current)
}

func TestNextCode_FormatVariants(t *testing.T) {
	q := &fakeQuerier{}
	svc := New(q)
	ctx := context.Background()

	cfg := coreseq.Config{Prefix: "STK", IncludeYear: false, PadWidth: 3, ResetPeriod: "never"}
	code, err := svc.NextCode(ctx, cfg, nil, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, "STK-001", code)
}

func TestNextCode_QuerierError(t *testing.T) {
	q := &fakeQuerier{err: context.DeadlineExceeded}
	svc := New(q)

	_, err := svc.NextCode(context.Background(), coreseq.DefaultConfig("IMP"), nil, testPeriod)
	require.Error(t, err)
	assert.ErrorContains(t, err, "strict next")
}

func TestSetNextValue_InvalidatesCache(t *testing.T) {
	q := &fakeQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.DefaultConfig("IMP")
	opts := &coreseq.Options{Strategy: coreseq.StrategyCached, RangeSize: 10}

	_, err := svc.NextCode(ctx, cfg, opts, testPeriod)
	require.NoError(t, err)
	callsBefore := q.calls

	require.NoError(t, svc.SetNextValue(ctx, cfg, testPeriod, 100))

	// the cached range is gone, so the next code hits the database again
	_, err = svc.NextCode(ctx, cfg, opts, testPeriod)
	require.NoError(t, err)
	assert.Equal(t, callsBefore+2, q.calls)
}

func TestBuildKey_ResetPeriods(t *testing.T) {
	assert.Equal(t, "IMP_2026", buildKey(coreseq.Config{Prefix: "IMP", ResetPeriod: "year"}, testPeriod))
	assert.Equal(t, "IMP_2026_03", buildKey(coreseq.Config{Prefix: "IMP", ResetPeriod: "month"}, testPeriod))
	assert.Equal(t, "IMP", buildKey(coreseq.Config{Prefix: "IMP", ResetPeriod: "never"}, testPeriod))
}
