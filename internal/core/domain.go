package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  Type = "Income"
	Expense Type = "Expense"
)

const (
	// ReservedCategory is always present and never removable.
	ReservedCategory = "Uncategorized"
	// LegacyAccount receives every record of a pre-account document.
	LegacyAccount = "Default"

	DateLayout = "2006-01-02"

	transferOutPrefix = "Transfer to "
	transferInPrefix  = "Transfer from "
)

type (
	// Type is the direction of a transaction.
	Type string

	Date struct {
		time.Time
	}

	// ID identifies a transaction. Documents may carry numeric or string ids;
	// the original form is kept so that re-saving is lossless.
	ID struct {
		value   string
		numeric bool
	}

	Transaction struct {
		ID          ID
		Date        Date
		Account     string
		Description string
		Amount      Money
		Type        Type
		Category    string // Expense only; empty for Income and transfer legs
	}

	// TransactionInput carries the user editable fields of a transaction.
	TransactionInput struct {
		Date        string
		Account     string
		Description string
		Amount      Money
		Type        Type
		Category    string
	}

	TransferInput struct {
		Date   string
		From   string
		To     string
		Amount Money
	}

	// Transfer is the pair of legs created by one transfer.
	Transfer struct {
		Out Transaction
		In  Transaction
	}

	// Snapshot is the full ledger exchanged with repositories.
	Snapshot struct {
		Accounts     []string
		Categories   []string
		Transactions []Transaction
	}
)

// ParseType accepts "Income" or "Expense" in any letter case.
func ParseType(s string) (Type, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(Income)):
		return Income, nil
	case strings.EqualFold(strings.TrimSpace(s), string(Expense)):
		return Expense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

func (t Type) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q, use YYYY-MM-DD", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: not a string", ErrInvalidDate)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewID returns a string id.
func NewID(s string) ID {
	return ID{value: s}
}

// NumericID returns an id persisted as a JSON number. lit must be a number literal.
func NumericID(lit string) ID {
	return ID{value: lit, numeric: true}
}

func (id ID) String() string  { return id.value }
func (id ID) IsZero() bool    { return id.value == "" }
func (id ID) IsNumeric() bool { return id.numeric }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NewID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil || n == "" {
		return errors.New("id must be a number or a string")
	}
	*id = NumericID(n.String())
	return nil
}

// Build validates the input fields and returns the transaction they describe.
// Text fields are trimmed. An Expense without a category gets the reserved one. It does not check the
// account or category against a ledger.
func (in TransactionInput) Build(id ID) (Transaction, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, err
	}
	account := strings.TrimSpace(in.Account)
	if account == "" {
		return Transaction{}, ErrEmptyAccount
	}
	if err := in.Amount.Validate(); err != nil {
		return Transaction{}, err
	}
	if err := in.Type.Validate(); err != nil {
		return Transaction{}, err
	}
	category := strings.TrimSpace(in.Category)
	switch in.Type {
	case Income:
		if category != "" {
			return Transaction{}, ErrIncomeCategory
		}
	case Expense:
		if category == "" {
			category = ReservedCategory
		}
	}
	return Transaction{
		ID:          id,
		Date:        date,
		Account:     account,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    category,
	}, nil
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsTransferLeg reports whether the description marks t as one side of a transfer.
func (t Transaction) IsTransferLeg() bool {
	return strings.HasPrefix(t.Description, transferOutPrefix) ||
		strings.HasPrefix(t.Description, transferInPrefix)
}

// EffectiveCategory is the category used for reports.
func (t Transaction) EffectiveCategory() string {
	if t.Category == "" {
		return ReservedCategory
	}
	return t.Category
}

func (t Transaction) Validate() error {
	if t.ID.IsZero() {
		return fmt.Errorf("%w: missing id", ErrValidation)
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Account) == "" {
		return ErrEmptyAccount
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Type == Income && t.Category != "" {
		return ErrIncomeCategory
	}
	return nil
}

// TransferLegs builds the two legs of a transfer sharing stamp.
func TransferLegs(date Date, from, to string, amount Money, stamp string) Transfer {
	return Transfer{
		Out: Transaction{
			ID:          NewID("tf_out_" + stamp),
			Date:        date,
			Account:     from,
			Description: transferOutPrefix + to,
			Amount:      amount,
			Type:        Expense,
		},
		In: Transaction{
			ID:          NewID("tf_in_" + stamp),
			Date:        date,
			Account:     to,
			Description: transferInPrefix + from,
			Amount:      amount,
			Type:        Income,
		},
	}
}

// SeedSnapshot is the starter ledger used when no usable document exists.
func SeedSnapshot() Snapshot {
	return Snapshot{
		Accounts:     []string{"Cash", "Debit Card", "E-wallet"},
		Categories:   []string{"Bills", "Food", "Transport", ReservedCategory},
		Transactions: []Transaction{},
	}
}
