// Package sequence provides domain contracts for document code issuance.
// Implementations live in the infrastructure layer.
package sequence

import (
	"context"
	"time"
)

// Generator issues sequential document codes.
// This is the domain contract - implementations live in infrastructure.
type Generator interface {
	// NextCode issues the next document code for the period.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., IMP-2026-00001)
	// Codes are monotonically unique per call.
	NextCode(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextValue sets the next counter value (for migration purposes).
	SetNextValue(ctx context.Context, cfg Config, period time.Time, value int64) error
}
