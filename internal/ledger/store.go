// Package ledger holds the authoritative in-memory collections of accounts,
// categories and transactions.
//
// A Store is not safe for concurrent use; services.LedgerService serializes
// access to it.
package ledger

import (
	"slices"

	"finanze/internal/core"
)

type Store struct {
	accounts     map[string]struct{}
	categories   map[string]struct{}
	transactions []core.Transaction
	version      uint64
}

// New returns a store holding snap.
func New(snap core.Snapshot) *Store {
	s := &Store{}
	s.Restore(snap)
	return s
}

// Restore replaces the whole content of the store with snap. The reserved
// category is always present afterwards.
func (s *Store) Restore(snap core.Snapshot) {
	s.accounts = toSet(snap.Accounts)
	s.categories = toSet(snap.Categories)
	s.categories[core.ReservedCategory] = struct{}{}
	s.transactions = slices.Clone(snap.Transactions)
	s.version++
}

// Snapshot returns a deep copy of the ledger with sorted accounts and categories.
func (s *Store) Snapshot() core.Snapshot {
	return core.Snapshot{
		Accounts:     s.Accounts(),
		Categories:   s.Categories(),
		Transactions: s.Transactions(),
	}
}

// Version changes on every mutation.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) Accounts() []string   { return sortedKeys(s.accounts) }
func (s *Store) Categories() []string { return sortedKeys(s.categories) }

// Transactions returns a copy of the transaction list in insertion order.
func (s *Store) Transactions() []core.Transaction {
	return slices.Clone(s.transactions)
}

func (s *Store) HasAccount(name string) bool {
	_, ok := s.accounts[name]
	return ok
}

func (s *Store) HasCategory(name string) bool {
	_, ok := s.categories[name]
	return ok
}

// Find returns the index of the transaction whose id text is id, or -1.
func (s *Store) Find(id string) int {
	return slices.IndexFunc(s.transactions, func(t core.Transaction) bool {
		return t.ID.String() == id
	})
}

// At returns the transaction at index i.
func (s *Store) At(i int) core.Transaction { return s.transactions[i] }

// References reports whether any transaction names account.
func (s *Store) References(account string) bool {
	return slices.ContainsFunc(s.transactions, func(t core.Transaction) bool {
		return t.Account == account
	})
}

// Balances computes balances over the current ledger.
func (s *Store) Balances() core.Balances {
	return core.ComputeBalances(s.transactions, s.Accounts())
}

// BalancesWithout computes balances as if the transaction at index skip did not exist.
func (s *Store) BalancesWithout(skip int) core.Balances {
	hypothetical := slices.Delete(slices.Clone(s.transactions), skip, skip+1)
	return core.ComputeBalances(hypothetical, s.Accounts())
}

// Append adds txs at the end of the list in one step.
func (s *Store) Append(txs ...core.Transaction) {
	s.transactions = append(s.transactions, txs...)
	s.version++
}

func (s *Store) Replace(i int, t core.Transaction) {
	s.transactions[i] = t
	s.version++
}

func (s *Store) Remove(i int) core.Transaction {
	t := s.transactions[i]
	s.transactions = slices.Delete(s.transactions, i, i+1)
	s.version++
	return t
}

func (s *Store) AddAccount(name string) {
	s.accounts[name] = struct{}{}
	s.version++
}

func (s *Store) RemoveAccount(name string) {
	delete(s.accounts, name)
	s.version++
}

func (s *Store) AddCategory(name string) {
	s.categories[name] = struct{}{}
	s.version++
}

func (s *Store) RemoveCategory(name string) {
	delete(s.categories, name)
	s.version++
}

// HasID reports whether id text is already used by a transaction.
func (s *Store) HasID(id string) bool {
	return s.Find(id) >= 0
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
