package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"finanze/internal/core"
)

// FileRepository keeps the ledger in a single JSON document.
type FileRepository struct {
	path  string
	newID func() string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path, newID: uuid.NewString}
}

func (r *FileRepository) Path() string { return r.path }

// Load implements Repository. A missing file yields the seeded ledger without
// error.
func (r *FileRepository) Load(ctx context.Context) (core.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.InfoContext(ctx, "Ledger file not found, starting with defaults", "path", r.path)
		return core.SeedSnapshot(), nil
	}
	if err != nil {
		return core.SeedSnapshot(), fmt.Errorf("%w: read %s: %w", core.ErrPersistence, r.path, err)
	}

	raw, err := DecodeDocument(data)
	if err != nil {
		return core.SeedSnapshot(), fmt.Errorf("load %s: %w", r.path, err)
	}

	snap := Normalize(ctx, raw, r.newID)
	slog.InfoContext(ctx, "Ledger loaded",
		"path", r.path,
		"accounts", len(snap.Accounts),
		"categories", len(snap.Categories),
		"transactions", len(snap.Transactions))
	return snap, nil
}

// Save implements Repository. The document is written to a temporary file in
// the same directory and renamed over the target.
func (r *FileRepository) Save(ctx context.Context, snap core.Snapshot) error {
	data, err := EncodeDocument(snap)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", core.ErrPersistence, dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", core.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", core.ErrPersistence, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", core.ErrPersistence, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", core.ErrPersistence, r.path, err)
	}

	slog.InfoContext(ctx, "Ledger saved", "path", r.path, "transactions", len(snap.Transactions))
	return nil
}

func (r *FileRepository) Close() error { return nil }
