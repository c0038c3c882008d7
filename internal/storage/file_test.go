package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"finanze/internal/core"
)

func TestFileRepositoryMissingFileSeeds(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "finance_data.json"))
	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	seed := core.SeedSnapshot()
	if !slices.Equal(snap.Accounts, seed.Accounts) || !slices.Equal(snap.Categories, seed.Categories) || len(snap.Transactions) != 0 {
		t.Fatalf("expected seeded state, got %+v", snap)
	}
}

func TestFileRepositoryMalformedFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance_data.json")
	if err := os.WriteFile(path, []byte(`{"oops": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, err := NewFileRepository(path).Load(context.Background())
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !slices.Equal(snap.Accounts, core.SeedSnapshot().Accounts) {
		t.Fatalf("expected seeded accounts, got %v", snap.Accounts)
	}
}

func TestFileRepositorySaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "finance_data.json")
	repo := NewFileRepository(path)

	want := core.Snapshot{
		Accounts:   []string{"Bank", "Cash"},
		Categories: []string{"Groceries", core.ReservedCategory},
		Transactions: []core.Transaction{
			{ID: core.NewID("b"), Date: core.NewDate(2025, 2, 1), Account: "Cash", Description: "Food", Amount: core.Money{Cents: 20000}, Type: core.Expense, Category: "Groceries"},
			{ID: core.NewID("a"), Date: core.NewDate(2025, 1, 1), Account: "Cash", Description: "Salary", Amount: core.Money{Cents: 100000}, Type: core.Income},
		},
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !slices.Equal(got.Accounts, want.Accounts) || !slices.Equal(got.Categories, want.Categories) {
		t.Fatalf("sets changed: %+v", got)
	}
	if !slices.Equal(got.Transactions, want.Transactions) {
		t.Fatalf("transactions changed (order must be insertion order):\n%+v\n%+v", got.Transactions, want.Transactions)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestFileRepositorySaveFailure(t *testing.T) {
	dir := t.TempDir()
	// The target path is an existing directory, so the rename fails.
	target := filepath.Join(dir, "ledger.json")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := NewFileRepository(target).Save(context.Background(), core.SeedSnapshot())
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}
