package sequence

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextCodeFunc     func(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
	SetNextValueFunc func(ctx context.Context, cfg Config, period time.Time, value int64) error

	counter int64
}

// NextCode implements Generator.
func (m *MockGenerator) NextCode(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if m.NextCodeFunc != nil {
		return m.NextCodeFunc(ctx, cfg, opts, period)
	}
	// Default: predictable monotonic codes
	n := atomic.AddInt64(&m.counter, 1)
	return fmt.Sprintf("%s-%d-%05d", cfg.Prefix, period.Year(), n), nil
}

// SetNextValue implements Generator.
func (m *MockGenerator) SetNextValue(ctx context.Context, cfg Config, period time.Time, value int64) error {
	if m.SetNextValueFunc != nil {
		return m.SetNextValueFunc(ctx, cfg, period, value)
	}
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
