package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"finanze/internal/core"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%d", n)
	}
}

func load(t *testing.T, doc string) core.Snapshot {
	t.Helper()
	raw, err := DecodeDocument([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return Normalize(context.Background(), raw, sequentialIDs())
}

func TestDecodeDocumentRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":              `{"accounts": [`,
		"empty":                 ``,
		"scalar root":           `42`,
		"missing accounts":      `{"transactions": []}`,
		"missing transactions":  `{"accounts": ["Cash"]}`,
		"accounts not a list":   `{"accounts": "Cash", "transactions": []}`,
		"categories not a list": `{"accounts": [], "categories": {"a": 1}, "transactions": []}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(doc))
			if !errors.Is(err, ErrMalformedDocument) || !errors.Is(err, core.ErrPersistence) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}

func TestNormalizeMissingCategoriesSection(t *testing.T) {
	snap := load(t, `{"accounts": ["Cash"], "transactions": []}`)
	if !slices.Equal(snap.Categories, []string{core.ReservedCategory}) {
		t.Fatalf("categories = %v", snap.Categories)
	}
}

func TestNormalizeRepairsRecords(t *testing.T) {
	snap := load(t, `{
		"accounts": ["Cash", "Bank"],
		"categories": ["Food"],
		"transactions": [
			{"date": "2025-01-01", "account": "Cash", "description": "Salary", "amount": 1000, "type": "Income", "category": "Food"},
			{"id": 7, "date": "2025-01-02", "account": "Cash", "description": "Lunch", "amount": "12.50", "type": "Expense"},
			{"id": 7, "date": "2025-01-03", "account": "Cash", "description": "Dup", "amount": "oops", "type": "Expense", "category": null},
			{"id": "tf_out_x", "date": "2025-01-04", "account": "Cash", "description": "Transfer to Bank", "amount": 5, "type": "Expense", "category": null},
			{"id": "neg", "date": "2025-01-05", "account": "Gone", "description": "Refund", "amount": -3, "type": "Income"},
			{"date": "2025-01-06", "account": "Cash", "amount": 1, "type": "Income"},
			{"date": "06/01/2025", "account": "Cash", "description": "bad date", "amount": 1, "type": "Income"},
			{"date": "2025-01-07", "account": "Cash", "description": "bad type", "amount": 1, "type": "Refund"},
			"not an object"
		]
	}`)

	if want := []string{"Food", core.ReservedCategory}; !slices.Equal(snap.Categories, want) {
		t.Errorf("categories = %v, want %v", snap.Categories, want)
	}
	if len(snap.Transactions) != 5 {
		t.Fatalf("expected 5 surviving records, got %d: %+v", len(snap.Transactions), snap.Transactions)
	}

	salary, lunch, dup, leg, refund := snap.Transactions[0], snap.Transactions[1], snap.Transactions[2], snap.Transactions[3], snap.Transactions[4]

	if salary.ID.String() != "gen_1" || salary.Category != "" || salary.Amount.Cents != 100000 {
		t.Errorf("salary = %+v", salary)
	}
	if lunch.ID.String() != "7" || !lunch.ID.IsNumeric() || lunch.Category != core.ReservedCategory || lunch.Amount.Cents != 1250 {
		t.Errorf("lunch = %+v", lunch)
	}
	if dup.ID.String() != "gen_2" || !dup.Amount.IsZero() || dup.Category != core.ReservedCategory {
		t.Errorf("dup = %+v", dup)
	}
	if leg.Category != "" || leg.ID.String() != "tf_out_x" {
		t.Errorf("transfer leg = %+v", leg)
	}
	if refund.Account != "Gone" || refund.Amount.Cents != 300 {
		t.Errorf("orphaned refund should be kept with its magnitude: %+v", refund)
	}

	ids := map[string]bool{}
	for _, tx := range snap.Transactions {
		if ids[tx.ID.String()] {
			t.Fatalf("duplicate id %s after normalization", tx.ID)
		}
		ids[tx.ID.String()] = true
	}
}

func TestNormalizeOversizedAmountBecomesZero(t *testing.T) {
	snap := load(t, `{
		"accounts": ["Cash"],
		"transactions": [
			{"id": "big", "date": "2025-01-01", "account": "Cash", "description": "Typo", "amount": 184467440737095517.16, "type": "Income"},
			{"id": "ok", "date": "2025-01-02", "account": "Cash", "description": "Pay", "amount": 1, "type": "Income"}
		]
	}`)
	if len(snap.Transactions) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap.Transactions))
	}
	if big := snap.Transactions[0]; !big.Amount.IsZero() {
		t.Errorf("oversized amount = %v, want 0", big.Amount)
	}
	if got := core.ComputeBalances(snap.Transactions, snap.Accounts).Of("Cash"); got.Cents != 100 {
		t.Errorf("Cash balance = %v, want 1.00", got)
	}
}

func TestNormalizeLegacyArray(t *testing.T) {
	snap := load(t, `[
		{"date": "2024-05-01", "description": "Pay", "amount": 500, "type": "Income", "category": "Job"},
		{"date": "2024-05-02", "description": "Snacks", "amount": 20, "type": "Expense"},
		{"description": "no date", "amount": 1, "type": "Income"}
	]`)

	if !slices.Equal(snap.Accounts, []string{core.LegacyAccount}) {
		t.Fatalf("accounts = %v", snap.Accounts)
	}
	if len(snap.Transactions) != 2 {
		t.Fatalf("transactions = %+v", snap.Transactions)
	}
	for _, tx := range snap.Transactions {
		if tx.Account != core.LegacyAccount || tx.ID.IsZero() {
			t.Errorf("legacy record not repaired: %+v", tx)
		}
	}
	if snap.Transactions[0].Category != "" {
		t.Errorf("income must drop its category: %+v", snap.Transactions[0])
	}
	if snap.Transactions[1].Category != core.ReservedCategory {
		t.Errorf("expense must get the reserved category: %+v", snap.Transactions[1])
	}
}

func TestNormalizeEmptyLegacyArray(t *testing.T) {
	snap := load(t, `[]`)
	if len(snap.Accounts) != 0 || len(snap.Transactions) != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestEncodeDocument(t *testing.T) {
	snap := core.Snapshot{
		Accounts:   []string{"Cash", "Bank"},
		Categories: []string{"Food"},
		Transactions: []core.Transaction{
			{ID: core.NumericID("1712345678.5"), Date: core.NewDate(2025, 1, 1), Account: "Cash", Description: "Café & co", Amount: core.Money{Cents: 1050}, Type: core.Expense, Category: "Food"},
			{ID: core.NewID("tf_in_1"), Date: core.NewDate(2025, 1, 2), Account: "Bank", Description: "Transfer from Cash", Amount: core.Money{Cents: 100}, Type: core.Income},
		},
	}
	data, err := EncodeDocument(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`"accounts": [
        "Bank",
        "Cash"
    ]`,
		`"categories": [
        "Food",
        "Uncategorized"
    ]`,
		`"id": 1712345678.5`,
		`"amount": 10.5`,
		`"description": "Café & co"`,
		`"category": null`,
		`"id": "tf_in_1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded document missing %q:\n%s", want, out)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	original := load(t, `{
		"accounts": ["Cash", "Bank", "E-wallet"],
		"categories": ["Groceries", "Uncategorized"],
		"transactions": [
			{"id": 1.5, "date": "2025-01-01", "account": "Cash", "description": "Salary", "amount": 1000, "type": "Income", "category": null},
			{"id": "abc", "date": "2025-01-02", "account": "Cash", "description": "Food", "amount": 200.25, "type": "Expense", "category": "Groceries"},
			{"id": "tf_out_1", "date": "2025-01-03", "account": "Cash", "description": "Transfer to Bank", "amount": 300, "type": "Expense", "category": null},
			{"id": "tf_in_1", "date": "2025-01-03", "account": "Bank", "description": "Transfer from Cash", "amount": 300, "type": "Income", "category": null}
		]
	}`)

	first, err := EncodeDocument(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again := load(t, string(first))
	second, err := EncodeDocument(again)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("round trip not stable:\n%s\n---\n%s", first, second)
	}
	if !slices.Equal(original.Transactions, again.Transactions) {
		t.Fatalf("transactions changed:\n%+v\n%+v", original.Transactions, again.Transactions)
	}
}
