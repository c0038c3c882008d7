package core

import "testing"

func tx(id, account string, typ Type, cents int64) Transaction {
	return Transaction{
		ID:      NewID(id),
		Date:    NewDate(2025, 1, 1),
		Account: account,
		Amount:  Money{Cents: cents},
		Type:    typ,
	}
}

func TestComputeBalances(t *testing.T) {
	txs := []Transaction{
		tx("1", "Cash", Income, 100000),
		tx("2", "Cash", Expense, 20000),
		tx("3", "Bank", Income, 5000),
		tx("4", "Gone", Income, 999999), // deleted account
	}
	b := ComputeBalances(txs, []string{"Bank", "Cash", "Idle"})

	if got := b.Of("Cash"); got.Cents != 80000 {
		t.Errorf("Cash = %v", got)
	}
	if got := b.Of("Bank"); got.Cents != 5000 {
		t.Errorf("Bank = %v", got)
	}
	if got, ok := b.PerAccount["Idle"]; !ok || !got.IsZero() {
		t.Errorf("Idle should be present with zero balance, got %v %v", got, ok)
	}
	if _, ok := b.PerAccount["Gone"]; ok {
		t.Errorf("unknown account must not appear")
	}
	if b.Total.Cents != 85000 {
		t.Errorf("Total = %v", b.Total)
	}

	var sum Money
	for _, m := range b.PerAccount {
		sum = sum.Add(m)
	}
	if sum != b.Total {
		t.Errorf("sum of accounts %v != total %v", sum, b.Total)
	}
}

func TestComputeBalancesEmpty(t *testing.T) {
	b := ComputeBalances(nil, nil)
	if len(b.PerAccount) != 0 || !b.Total.IsZero() {
		t.Fatalf("unexpected balances: %+v", b)
	}
}
