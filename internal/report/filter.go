// Package report derives filtered views and summaries from a transaction list.
package report

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"finanze/internal/core"
)

// All disables a filter dimension.
const All = "All"

var ErrInvalidRange = fmt.Errorf("%w: start date is after end date", core.ErrValidation)

// Criteria selects transactions. Empty fields and All mean no restriction.
type Criteria struct {
	Start    string // YYYY-MM-DD, inclusive
	End      string // YYYY-MM-DD, inclusive
	Account  string
	Category string
	Type     string
}

// Key is a stable textual form of c, used for caching.
func (c Criteria) Key() string {
	return strings.Join([]string{c.Start, c.End, norm(c.Account), norm(c.Category), norm(c.Type)}, "\x1f")
}

// Filter returns the transactions matching c, newest first; same-day rows keep
// their ledger order. A bad date range is reported as an error together with
// the full, unfiltered list.
func Filter(txs []core.Transaction, c Criteria) ([]core.Transaction, error) {
	start, end, err := c.bounds()
	if err != nil {
		return sortByDate(slices.Clone(txs)), err
	}

	account, category := norm(c.Account), norm(c.Category)
	var typ core.Type
	if t := norm(c.Type); t != "" {
		typ, err = core.ParseType(t)
		if err != nil {
			return sortByDate(slices.Clone(txs)), err
		}
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if !start.IsZero() && t.Date.Before(start.Time) {
			continue
		}
		if !end.IsZero() && t.Date.After(end.Time) {
			continue
		}
		if account != "" && t.Account != account {
			continue
		}
		if typ != "" && t.Type != typ {
			continue
		}
		// Category narrows expenses only; other rows pass it.
		if category != "" && t.Type == core.Expense && t.EffectiveCategory() != category {
			continue
		}
		out = append(out, t)
	}
	return sortByDate(out), nil
}

func (c Criteria) bounds() (start, end core.Date, err error) {
	var errs []error
	if s := strings.TrimSpace(c.Start); s != "" {
		if start, err = core.ParseDate(s); err != nil {
			errs = append(errs, fmt.Errorf("start date: %w", err))
		}
	}
	if e := strings.TrimSpace(c.End); e != "" {
		if end, err = core.ParseDate(e); err != nil {
			errs = append(errs, fmt.Errorf("end date: %w", err))
		}
	}
	if len(errs) > 0 {
		return core.Date{}, core.Date{}, errors.Join(errs...)
	}
	if !start.IsZero() && !end.IsZero() && start.After(end.Time) {
		return core.Date{}, core.Date{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return start, end, nil
}

func sortByDate(txs []core.Transaction) []core.Transaction {
	slices.SortStableFunc(txs, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
	return txs
}

func norm(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, All) {
		return ""
	}
	return v
}
