package storage

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"finanze/internal/core"
)

func TestMemoryRepositoryDefaults(t *testing.T) {
	repo := NewMemoryRepository(core.Snapshot{})
	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(snap.Accounts, core.SeedSnapshot().Accounts) {
		t.Errorf("accounts = %v, want seed", snap.Accounts)
	}
	if snap.Transactions == nil {
		t.Error("transactions should be an empty list, not nil")
	}
}

func TestMemoryRepositorySaveIsolatesCaller(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(core.SeedSnapshot())

	snap := core.Snapshot{
		Accounts:   []string{"Wallet", "Bank"},
		Categories: []string{"Food"},
		Transactions: []core.Transaction{
			{ID: core.NewID("tx_1"), Date: core.NewDate(2025, 1, 1), Account: "Bank", Amount: core.Money{Cents: 100}, Type: core.Income},
		},
	}
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	snap.Transactions[0].Account = "mutated"

	got, _ := repo.Load(ctx)
	if got.Transactions[0].Account != "Bank" {
		t.Error("repository shares memory with the caller")
	}
	if !slices.Equal(got.Accounts, []string{"Bank", "Wallet"}) {
		t.Errorf("accounts = %v, want sorted", got.Accounts)
	}
	if !slices.Equal(got.Categories, []string{"Food", core.ReservedCategory}) {
		t.Errorf("categories = %v", got.Categories)
	}
	if repo.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", repo.Saves())
	}
}

func TestMemoryRepositoryFromFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "seed_accounts.txt"), []byte("# mine\nWallet\n\nSavings\nWallet\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, _ := NewMemoryRepositoryFromFiles(dir).Load(context.Background())
	if !slices.Equal(snap.Accounts, []string{"Wallet", "Savings"}) {
		t.Errorf("accounts = %v", snap.Accounts)
	}
	if !slices.Equal(snap.Categories, core.SeedSnapshot().Categories) {
		t.Errorf("categories = %v, want seed", snap.Categories)
	}
}
