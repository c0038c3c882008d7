package core

// Balances holds per-account balances and their total.
type Balances struct {
	PerAccount map[string]Money
	Total      Money
}

// ComputeBalances sums txs over the known accounts. Every known account has an
// entry; transactions on other accounts are ignored, including for the total.
func ComputeBalances(txs []Transaction, accounts []string) Balances {
	b := Balances{PerAccount: make(map[string]Money, len(accounts))}
	for _, a := range accounts {
		b.PerAccount[a] = Zero
	}
	for _, t := range txs {
		cur, ok := b.PerAccount[t.Account]
		if !ok {
			continue
		}
		delta := t.Signed()
		b.PerAccount[t.Account] = cur.Add(delta)
		b.Total = b.Total.Add(delta)
	}
	return b
}

// Of returns the balance of account, zero when unknown.
func (b Balances) Of(account string) Money {
	return b.PerAccount[account]
}
