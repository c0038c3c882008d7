package services

import (
	"context"
	"slices"
	"strconv"

	"finanze/internal/core"
	"finanze/internal/log"
	"finanze/internal/report"
)

// FilterTransactions returns the ledger rows matching c, newest first. On a
// bad date range it returns every row together with the error.
func (s *LedgerService) FilterTransactions(ctx context.Context, c report.Criteria) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := report.Filter(s.store.Transactions(), c)
	if err != nil {
		s.logger.WarnContext(ctx, "Filter error, showing all transactions",
			log.FieldOperation, log.OpFilter, log.FieldError, err)
	}
	return rows, err
}

// Summarize totals the rows selected by c. Results are cached per ledger
// version, so any mutation makes earlier entries unreachable.
func (s *LedgerService) Summarize(ctx context.Context, c report.Criteria) (core.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatUint(s.store.Version(), 10) + "\x1e" + c.Key()
	if sum, ok := s.reports.Get(key); ok {
		return cloneSummary(sum), nil
	}

	rows, err := report.Filter(s.store.Transactions(), c)
	sum := report.Summarize(rows)
	if err != nil {
		s.logger.WarnContext(ctx, "Filter error, summarizing all transactions",
			log.FieldOperation, log.OpSummarize, log.FieldError, err)
		return sum, err
	}
	s.reports.Set(key, cloneSummary(sum))
	return sum, nil
}

// cloneSummary detaches the category slice so callers cannot alter cached reports.
func cloneSummary(sum core.Summary) core.Summary {
	sum.ByCategory = slices.Clone(sum.ByCategory)
	return sum
}
