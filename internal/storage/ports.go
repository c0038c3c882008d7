package storage

import (
	"context"

	"finanze/internal/core"
)

// Repository persists whole ledger snapshots.
type Repository interface {
	// Load returns the stored ledger. When the stored document is unusable it
	// returns the seeded default ledger together with an error wrapping
	// core.ErrPersistence.
	Load(ctx context.Context) (core.Snapshot, error)
	// Save replaces the stored ledger with snap.
	Save(ctx context.Context, snap core.Snapshot) error
	Close() error
}
