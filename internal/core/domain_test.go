package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-01", true},
		{"2024-02-29", true},
		{" 2025-12-31 ", true},
		{"2025-02-30", false},
		{"2025/01/01", false},
		{"01-01-2025", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q expected error, got %v", tc.in, d)
			}
			if !errors.Is(err, ErrInvalidDate) || !errors.Is(err, ErrValidation) {
				t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
			}
		}
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIDJSON(t *testing.T) {
	var ids []ID
	if err := json.Unmarshal([]byte(`[1712345678.123, "tf_out_1", 7]`), &ids); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ids[0].IsNumeric() || ids[0].String() != "1712345678.123" {
		t.Errorf("unexpected numeric id: %+v", ids[0])
	}
	if ids[1].IsNumeric() || ids[1].String() != "tf_out_1" {
		t.Errorf("unexpected string id: %+v", ids[1])
	}

	b, err := json.Marshal(ids)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[1712345678.123,"tf_out_1",7]` {
		t.Errorf("marshal = %s", b)
	}

	var bad ID
	if err := json.Unmarshal([]byte(`true`), &bad); err == nil {
		t.Errorf("expected error for boolean id")
	}
}

func TestTransactionInputBuild(t *testing.T) {
	good := TransactionInput{
		Date:        "2025-01-01",
		Account:     " Cash ",
		Description: "  Lunch with Ana \n",
		Amount:      Money{Cents: 100},
		Type:        Expense,
	}
	tx, err := good.Build(NewID("x"))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.Account != "Cash" || tx.Description != "Lunch with Ana" || tx.Category != ReservedCategory {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	income := good
	income.Type = Income
	if tx, err := income.Build(NewID("y")); err != nil || tx.Category != "" {
		t.Fatalf("income build: %+v, %v", tx, err)
	}

	bads := []TransactionInput{
		{Date: "", Account: "a", Amount: Money{Cents: 1}, Type: Income},
		{Date: "2025-13-01", Account: "a", Amount: Money{Cents: 1}, Type: Income},
		{Date: "2025-01-01", Account: " ", Amount: Money{Cents: 1}, Type: Income},
		{Date: "2025-01-01", Account: "a", Amount: Money{Cents: 0}, Type: Income},
		{Date: "2025-01-01", Account: "a", Amount: Money{Cents: 1}, Type: "Refund"},
		{Date: "2025-01-01", Account: "a", Amount: Money{Cents: 1}, Type: Income, Category: "Food"},
	}
	for i, in := range bads {
		if _, err := in.Build(NewID("z")); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{"income": Income, "EXPENSE": Expense, " Income ": Income} {
		got, err := ParseType(in)
		if err != nil || got != want {
			t.Errorf("ParseType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseType("transfer"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func TestTransferLegs(t *testing.T) {
	tr := TransferLegs(NewDate(2025, 3, 1), "Cash", "Bank", Money{Cents: 30000}, "abc")
	if tr.Out.ID.String() != "tf_out_abc" || tr.In.ID.String() != "tf_in_abc" {
		t.Fatalf("unexpected ids: %s %s", tr.Out.ID, tr.In.ID)
	}
	if tr.Out.Description != "Transfer to Bank" || tr.In.Description != "Transfer from Cash" {
		t.Fatalf("unexpected descriptions: %q %q", tr.Out.Description, tr.In.Description)
	}
	if tr.Out.Type != Expense || tr.In.Type != Income || tr.Out.Category != "" || tr.In.Category != "" {
		t.Fatalf("unexpected legs: %+v", tr)
	}
	if !tr.Out.IsTransferLeg() || !tr.In.IsTransferLeg() {
		t.Fatalf("legs should be recognized as transfer legs")
	}
	for _, desc := range []string{"Dinner, transfer to mom later", "Refund: Transfer to Bank failed", "transfer to Bank"} {
		if (Transaction{Description: desc}).IsTransferLeg() {
			t.Errorf("%q recognized as transfer leg; only a leading marker counts", desc)
		}
	}
}

func TestConfirm(t *testing.T) {
	w := &OverdraftWarning{Account: "Cash", Balance: Money{Cents: 100}, Amount: Money{Cents: 500}}
	if err := Confirm(AlwaysConfirm, w); err != nil {
		t.Fatalf("AlwaysConfirm returned %v", err)
	}
	for name, c := range map[string]Confirmer{"never": NeverConfirm, "nil": nil} {
		err := Confirm(c, w)
		if !errors.Is(err, ErrDeclined) {
			t.Fatalf("%s: expected ErrDeclined, got %v", name, err)
		}
		var ow *OverdraftWarning
		if !errors.As(err, &ow) || ow.Account != "Cash" {
			t.Fatalf("%s: expected the warning to be retrievable, got %v", name, err)
		}
	}
}
