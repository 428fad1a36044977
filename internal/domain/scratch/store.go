// Package scratch provides a recoverable, TTL-bounded cache of
// in-progress transaction edits, independent of the persisted document.
// One scratch slot holds one in-flight draft at a time.
package scratch

import (
	"context"
	"time"

	"restock/internal/domain/imports"
)

// DefaultTTL bounds how long an unsaved draft survives. A single value
// is used everywhere; configure via the store constructors.
const DefaultTTL = time.Hour

// Snapshot is the full editable state of a draft plus its write time.
type Snapshot struct {
	Transaction *imports.ImportTransaction `json:"transaction"`
	SavedAt     time.Time                  `json:"savedAt"`
}

// Store persists and recovers the scratch slot.
type Store interface {
	// Save stores the draft with the current timestamp, replacing any
	// previous snapshot in the slot.
	Save(ctx context.Context, doc *imports.ImportTransaction) error

	// Load returns the snapshot if it is within the TTL. An expired
	// snapshot is discarded and nil is returned.
	Load(ctx context.Context) (*Snapshot, error)

	// Clear empties the slot.
	Clear(ctx context.Context) error
}
