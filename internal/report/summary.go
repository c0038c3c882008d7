package report

import (
	"cmp"
	"slices"

	"finanze/internal/core"
)

// Summarize totals txs. Category totals only count expenses.
func Summarize(txs []core.Transaction) core.Summary {
	var s core.Summary
	byCategory := map[string]core.Money{}
	for _, t := range txs {
		s.Count++
		switch t.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			name := t.EffectiveCategory()
			byCategory[name] = byCategory[name].Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)

	s.ByCategory = make([]core.CategoryAmount, 0, len(byCategory))
	for name, amount := range byCategory {
		s.ByCategory = append(s.ByCategory, core.CategoryAmount{Name: name, Amount: amount})
	}
	slices.SortFunc(s.ByCategory, func(a, b core.CategoryAmount) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return s
}
