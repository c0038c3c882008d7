package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"finanze/internal/core"
)

var ErrMalformedDocument = fmt.Errorf("%w: malformed ledger document", core.ErrPersistence)

// RawDocument is a structurally valid ledger document whose transaction
// records have not been checked yet.
type RawDocument struct {
	Legacy        bool // bare array of pre-account records
	Accounts      []string
	Categories    []string
	HasCategories bool
	Records       []json.RawMessage
}

type wireDocument struct {
	Accounts     []string          `json:"accounts"`
	Categories   []string          `json:"categories"`
	Transactions []wireTransaction `json:"transactions"`
}

type wireTransaction struct {
	ID          core.ID    `json:"id"`
	Date        core.Date  `json:"date"`
	Account     string     `json:"account"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Type        core.Type  `json:"type"`
	Category    *string    `json:"category"`
}

// DecodeDocument checks the document shape only: an object with "accounts"
// and "transactions" arrays (and optionally "categories"), or a legacy bare
// array. Anything else is ErrMalformedDocument.
func DecodeDocument(data []byte) (RawDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return RawDocument{}, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}

	if data[0] == '[' {
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return RawDocument{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		return RawDocument{Legacy: true, Records: records}, nil
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return RawDocument{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	accountsRaw, ok := sections["accounts"]
	if !ok {
		return RawDocument{}, fmt.Errorf("%w: missing accounts section", ErrMalformedDocument)
	}
	transactionsRaw, ok := sections["transactions"]
	if !ok {
		return RawDocument{}, fmt.Errorf("%w: missing transactions section", ErrMalformedDocument)
	}

	var doc RawDocument
	if err := json.Unmarshal(accountsRaw, &doc.Accounts); err != nil {
		return RawDocument{}, fmt.Errorf("%w: accounts: %w", ErrMalformedDocument, err)
	}
	if err := json.Unmarshal(transactionsRaw, &doc.Records); err != nil {
		return RawDocument{}, fmt.Errorf("%w: transactions: %w", ErrMalformedDocument, err)
	}
	if categoriesRaw, ok := sections["categories"]; ok && string(categoriesRaw) != "null" {
		if err := json.Unmarshal(categoriesRaw, &doc.Categories); err != nil {
			return RawDocument{}, fmt.Errorf("%w: categories: %w", ErrMalformedDocument, err)
		}
		doc.HasCategories = true
	}
	return doc, nil
}

// Normalize repairs a decoded document into a consistent ledger: ids are
// synthesized where missing or duplicated, categories are backfilled,
// amounts coerced, legacy records moved to the default account. Records that
// cannot be repaired are dropped with a warning.
func Normalize(ctx context.Context, raw RawDocument, newID func() string) core.Snapshot {
	if newID == nil {
		newID = uuid.NewString
	}

	snap := core.Snapshot{
		Accounts:     dedupe(raw.Accounts),
		Categories:   []string{core.ReservedCategory},
		Transactions: make([]core.Transaction, 0, len(raw.Records)),
	}
	if raw.HasCategories {
		snap.Categories = dedupe(slices.Concat(raw.Categories, []string{core.ReservedCategory}))
	}
	if raw.Legacy {
		slog.WarnContext(ctx, "Legacy ledger document, assigning records to default account",
			"account", core.LegacyAccount, "records", len(raw.Records))
		snap.Accounts = nil
	}

	seen := make(map[string]struct{}, len(raw.Records))
	for i, rec := range raw.Records {
		t, err := normalizeRecord(rec, raw.Legacy)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid transaction record", "index", i, "error", err)
			continue
		}
		if _, dup := seen[t.ID.String()]; t.ID.IsZero() || dup {
			old := t.ID.String()
			for {
				t.ID = core.NewID("gen_" + newID())
				if _, taken := seen[t.ID.String()]; !taken {
					break
				}
			}
			slog.DebugContext(ctx, "Assigned transaction id", "index", i, "old_id", old, "id", t.ID.String())
		}
		seen[t.ID.String()] = struct{}{}
		snap.Transactions = append(snap.Transactions, t)
	}

	if raw.Legacy && len(snap.Transactions) > 0 {
		snap.Accounts = []string{core.LegacyAccount}
	}
	return snap
}

func normalizeRecord(rec json.RawMessage, legacy bool) (core.Transaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil || fields == nil {
		return core.Transaction{}, errors.New("record is not an object")
	}

	required := []string{"date", "description", "amount", "type"}
	if !legacy {
		required = append(required, "account")
	}
	for _, k := range required {
		if _, ok := fields[k]; !ok {
			return core.Transaction{}, fmt.Errorf("missing field %q", k)
		}
	}

	var t core.Transaction
	if err := json.Unmarshal(fields["date"], &t.Date); err != nil {
		return core.Transaction{}, err
	}

	var typ string
	if err := json.Unmarshal(fields["type"], &typ); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: not a string", core.ErrInvalidType)
	}
	parsed, err := core.ParseType(typ)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = parsed

	if t.Description, err = optionalString(fields["description"]); err != nil {
		return core.Transaction{}, fmt.Errorf("description: %w", err)
	}

	if legacy {
		t.Account = core.LegacyAccount
	} else {
		account, err := optionalString(fields["account"])
		if err != nil {
			return core.Transaction{}, fmt.Errorf("account: %w", err)
		}
		if t.Account = strings.TrimSpace(account); t.Account == "" {
			return core.Transaction{}, core.ErrEmptyAccount
		}
	}

	// Unparseable amounts become zero; direction lives in the type, so a
	// negative amount keeps only its magnitude.
	if err := json.Unmarshal(fields["amount"], &t.Amount); err != nil {
		t.Amount = core.Zero
	}
	if t.Amount.Cents < 0 {
		t.Amount = t.Amount.Neg()
	}

	if raw, ok := fields["id"]; ok {
		var id core.ID
		if err := json.Unmarshal(raw, &id); err == nil {
			t.ID = id
		}
	}

	category := ""
	if raw, ok := fields["category"]; ok {
		// A non-string category is treated as absent.
		category, _ = optionalString(raw)
		category = strings.TrimSpace(category)
	}
	switch {
	case t.Type == core.Income:
		t.Category = ""
	case category != "":
		t.Category = category
	case !t.IsTransferLeg():
		t.Category = core.ReservedCategory
	}
	return t, nil
}

// optionalString decodes a JSON string, treating null as empty.
func optionalString(raw json.RawMessage) (string, error) {
	if raw == nil || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.New("not a string")
	}
	return s, nil
}

// EncodeDocument renders snap with sorted accounts and categories and
// transactions in insertion order.
func EncodeDocument(snap core.Snapshot) ([]byte, error) {
	doc := wireDocument{
		Accounts:     sortedCopy(snap.Accounts),
		Categories:   sortedCopy(dedupe(slices.Concat(snap.Categories, []string{core.ReservedCategory}))),
		Transactions: make([]wireTransaction, 0, len(snap.Transactions)),
	}
	for _, t := range snap.Transactions {
		w := wireTransaction{
			ID:          t.ID,
			Date:        t.Date,
			Account:     t.Account,
			Description: t.Description,
			Amount:      t.Amount,
			Type:        t.Type,
		}
		if t.Type == core.Expense && t.Category != "" {
			c := t.Category
			w.Category = &c
		}
		doc.Transactions = append(doc.Transactions, w)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode ledger document: %w", err)
	}
	return buf.Bytes(), nil
}
