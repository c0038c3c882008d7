package ledger

import (
	"slices"
	"testing"

	"finanze/internal/core"
)

func sample() core.Snapshot {
	return core.Snapshot{
		Accounts:   []string{"Cash", "Bank"},
		Categories: []string{"Food"},
		Transactions: []core.Transaction{
			{ID: core.NewID("a"), Date: core.NewDate(2025, 1, 1), Account: "Cash", Amount: core.Money{Cents: 1000}, Type: core.Income},
			{ID: core.NewID("b"), Date: core.NewDate(2025, 1, 2), Account: "Cash", Amount: core.Money{Cents: 300}, Type: core.Expense, Category: "Food"},
		},
	}
}

func TestStoreSnapshotSortsAndAddsReserved(t *testing.T) {
	s := New(sample())
	snap := s.Snapshot()
	if !slices.Equal(snap.Accounts, []string{"Bank", "Cash"}) {
		t.Errorf("accounts = %v", snap.Accounts)
	}
	if !slices.Equal(snap.Categories, []string{"Food", core.ReservedCategory}) {
		t.Errorf("categories = %v", snap.Categories)
	}
	if len(snap.Transactions) != 2 || snap.Transactions[0].ID.String() != "a" {
		t.Errorf("transactions = %+v", snap.Transactions)
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := New(sample())
	snap := s.Snapshot()
	snap.Transactions[0].Account = "Mutated"
	if s.At(0).Account != "Cash" {
		t.Fatalf("snapshot mutation leaked into the store")
	}
}

func TestStoreMutationsBumpVersion(t *testing.T) {
	s := New(sample())
	v := s.Version()

	s.Append(core.Transaction{ID: core.NewID("c")})
	s.Replace(0, s.At(0))
	s.Remove(s.Find("c"))
	s.AddAccount("Wallet")
	s.RemoveAccount("Wallet")
	s.AddCategory("Fun")
	s.RemoveCategory("Fun")

	if got := s.Version(); got != v+7 {
		t.Fatalf("version = %d, want %d", got, v+7)
	}
}

func TestStoreBalancesWithout(t *testing.T) {
	s := New(sample())
	if got := s.Balances().Of("Cash"); got.Cents != 700 {
		t.Fatalf("Cash = %v", got)
	}
	if got := s.BalancesWithout(1).Of("Cash"); got.Cents != 1000 {
		t.Fatalf("Cash without expense = %v", got)
	}
	if len(s.Transactions()) != 2 {
		t.Fatalf("BalancesWithout must not mutate the store")
	}
}

func TestStoreLookups(t *testing.T) {
	s := New(sample())
	if s.Find("b") != 1 || s.Find("zzz") != -1 {
		t.Errorf("unexpected Find results")
	}
	if !s.References("Cash") || s.References("Bank") {
		t.Errorf("unexpected References results")
	}
	if !s.HasAccount("Bank") || s.HasAccount("bank") {
		t.Errorf("account names are case-sensitive")
	}
	if !s.HasCategory(core.ReservedCategory) {
		t.Errorf("reserved category missing")
	}
}
