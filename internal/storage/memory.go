package storage

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"finanze/internal/core"
)

// MemoryRepository keeps the last saved snapshot in process memory. Nothing
// survives a restart.
type MemoryRepository struct {
	mu    sync.Mutex
	snap  core.Snapshot
	saves int
}

// NewMemoryRepository starts from seed, or from the default seed when seed has
// no accounts.
func NewMemoryRepository(seed core.Snapshot) *MemoryRepository {
	if len(seed.Accounts) == 0 {
		seed = core.SeedSnapshot()
	}
	return &MemoryRepository{snap: cloneSnapshot(seed)}
}

// NewMemoryRepositoryFromFiles seeds accounts and categories from
// seed_accounts.txt and seed_categories.txt in base, one name per line.
// Missing files fall back to the default seed.
func NewMemoryRepositoryFromFiles(base string) *MemoryRepository {
	seed := core.SeedSnapshot()
	if accounts := readLines(filepath.Join(base, "seed_accounts.txt")); len(accounts) > 0 {
		seed.Accounts = accounts
	}
	if categories := readLines(filepath.Join(base, "seed_categories.txt")); len(categories) > 0 {
		seed.Categories = dedupe(slices.Concat(categories, []string{core.ReservedCategory}))
	}
	return NewMemoryRepository(seed)
}

func (r *MemoryRepository) Load(context.Context) (core.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSnapshot(r.snap), nil
}

func (r *MemoryRepository) Save(_ context.Context, snap core.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = cloneSnapshot(snap)
	r.snap.Accounts = sortedCopy(dedupe(r.snap.Accounts))
	r.snap.Categories = sortedCopy(dedupe(slices.Concat(r.snap.Categories, []string{core.ReservedCategory})))
	r.saves++
	return nil
}

// Saves reports how many times Save was called.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *MemoryRepository) Close() error { return nil }

func cloneSnapshot(s core.Snapshot) core.Snapshot {
	txs := slices.Clone(s.Transactions)
	if txs == nil {
		txs = []core.Transaction{}
	}
	return core.Snapshot{
		Accounts:     slices.Clone(s.Accounts),
		Categories:   slices.Clone(s.Categories),
		Transactions: txs,
	}
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}
