package report

import (
	"testing"

	"finanze/internal/core"
)

func TestSummarize(t *testing.T) {
	s := Summarize(fixture())

	if s.Count != 5 {
		t.Errorf("Count = %d", s.Count)
	}
	if s.TotalIncome.Cents != 130000 {
		t.Errorf("TotalIncome = %v", s.TotalIncome)
	}
	if s.TotalExpense.Cents != 26500 {
		t.Errorf("TotalExpense = %v", s.TotalExpense)
	}
	if s.Net.Cents != 103500 {
		t.Errorf("Net = %v", s.Net)
	}

	want := []core.CategoryAmount{
		{Name: "Groceries", Amount: core.Money{Cents: 20000}},
		{Name: "Bills", Amount: core.Money{Cents: 5000}},
		{Name: core.ReservedCategory, Amount: core.Money{Cents: 1500}},
	}
	if len(s.ByCategory) != len(want) {
		t.Fatalf("ByCategory = %+v", s.ByCategory)
	}
	for i := range want {
		if s.ByCategory[i] != want[i] {
			t.Errorf("ByCategory[%d] = %+v, want %+v", i, s.ByCategory[i], want[i])
		}
	}
}

func TestSummarizeTiesSortByName(t *testing.T) {
	s := Summarize([]core.Transaction{
		mk("1", "2025-01-01", "Cash", core.Expense, 500, "Zoo"),
		mk("2", "2025-01-01", "Cash", core.Expense, 500, "Art"),
	})
	if s.ByCategory[0].Name != "Art" || s.ByCategory[1].Name != "Zoo" {
		t.Fatalf("unexpected order: %+v", s.ByCategory)
	}
	if s.Net.Cents != -1000 {
		t.Fatalf("Net = %v", s.Net)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 || !s.Net.IsZero() || len(s.ByCategory) != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
