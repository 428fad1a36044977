// Package sequence provides the PostgreSQL implementation of document
// code issuance. It implements core/sequence.Generator.
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	coreseq "restock/internal/core/sequence"
)

// Querier is the minimal database surface the generator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service issues document codes backed by the sys_sequences table.
// Counter rows are keyed by prefix plus reset period.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

var _ coreseq.Generator = (*Service)(nil)

// New creates a sequence service on the given querier, usually the pool.
// Code issuance runs outside business transactions so a rolled-back
// document never blocks the counter row.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// NextCode issues the next document code for the period.
// Pattern: PREFIX-YEAR-XXXXX (e.g., IMP-2026-00001).
func (s *Service) NextCode(ctx context.Context, cfg coreseq.Config, opts *coreseq.Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("sequence service is not initialized")
	}
	if opts == nil {
		opts = coreseq.DefaultOptions()
	}

	key := buildKey(cfg, period)

	var num int64
	var err error
	switch opts.Strategy {
	case coreseq.StrategyCached:
		num, err = s.nextCached(ctx, key, opts)
	default:
		num, err = s.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return formatCode(cfg, period, num), nil
}

// nextStrict increments the counter row with UPSERT + RETURNING. One
// round trip per code, no gaps.
func (s *Service) nextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// nextCached serves codes from an in-memory range, reserving a new range
// from the database when the current one is exhausted. Restarts may leave
// gaps.
func (s *Service) nextCached(ctx context.Context, key string, opts *coreseq.Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		// newMax is the last value of the reserved range, so the range
		// starts at newMax - size + 1.
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextValue sets the counter value directly (for migrations).
// Any cached range for the key is invalidated.
func (s *Service) SetNextValue(ctx context.Context, cfg coreseq.Config, period time.Time, value int64) error {
	key := buildKey(cfg, period)

	var result int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET current_val = $2
        RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	return err
}

func buildKey(cfg coreseq.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

func formatCode(cfg coreseq.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}
