package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrIntegrity   = errors.New("integrity error")
	ErrNotEditable = errors.New("not editable")
	ErrDeclined    = errors.New("declined")
	ErrPersistence = errors.New("persistence error")
)

var (
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidType      = fmt.Errorf("%w: invalid transaction type", ErrValidation)
	ErrEmptyAccount     = fmt.Errorf("%w: empty account name", ErrValidation)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category name", ErrValidation)
	ErrUnknownAccount   = fmt.Errorf("%w: unknown account", ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrDuplicateAccount = fmt.Errorf("%w: account already exists", ErrValidation)
	ErrDuplicateCat     = fmt.Errorf("%w: category already exists", ErrValidation)
	ErrSameAccount      = fmt.Errorf("%w: source and destination accounts are the same", ErrValidation)
	ErrIncomeCategory   = fmt.Errorf("%w: income transactions carry no category", ErrValidation)

	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("%w: account", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("%w: category", ErrNotFound)

	ErrInUse            = fmt.Errorf("%w: still referenced by transactions", ErrIntegrity)
	ErrReservedCategory = fmt.Errorf("%w: reserved category cannot be removed", ErrIntegrity)

	ErrTransferLeg = fmt.Errorf("%w: transfer legs cannot be edited", ErrNotEditable)
)
