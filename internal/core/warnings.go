package core

import "fmt"

// Warning is an advisory raised before a mutation. The mutation proceeds only
// when the caller's Confirmer accepts it.
type Warning interface {
	error
	warning()
}

// Confirmer decides whether an operation proceeds despite a warning.
type Confirmer func(Warning) bool

var (
	AlwaysConfirm Confirmer = func(Warning) bool { return true }
	NeverConfirm  Confirmer = func(Warning) bool { return false }
)

// OverdraftWarning reports that an outflow exceeds the current balance.
type OverdraftWarning struct {
	Account string
	Balance Money
	Amount  Money
}

func (w *OverdraftWarning) Error() string {
	return fmt.Sprintf("amount %s would overdraw account %q (balance %s)", w.Amount, w.Account, w.Balance)
}

func (*OverdraftWarning) warning() {}

// DeleteAccountWarning asks for confirmation before an account is removed.
type DeleteAccountWarning struct {
	Account string
}

func (w *DeleteAccountWarning) Error() string {
	return fmt.Sprintf("account %q will be permanently deleted", w.Account)
}

func (*DeleteAccountWarning) warning() {}

// Confirm asks c about w. A nil Confirmer declines. The returned error wraps
// both ErrDeclined and w.
func Confirm(c Confirmer, w Warning) error {
	if c != nil && c(w) {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDeclined, w)
}
