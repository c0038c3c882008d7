package services

import (
	"context"
	"fmt"
	"strings"

	"finanze/internal/amqp"
	"finanze/internal/core"
	"finanze/internal/log"
)

// AddTransaction validates in and appends it as a new transaction. An expense
// larger than the account balance is passed to confirm as an
// *core.OverdraftWarning; declining leaves the ledger unchanged.
func (s *LedgerService) AddTransaction(ctx context.Context, in core.TransactionInput, confirm core.Confirmer) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.validate(in, "")
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	if t.Type == core.Expense {
		balance := s.store.Balances().Of(t.Account)
		if err := s.checkOverdraft(ctx, confirm, t, balance); err != nil {
			return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
		}
	}

	t.ID = core.NewID(s.uniqueID("tx_"))
	s.store.Append(t)

	s.logger.InfoContext(ctx, "Transaction added", log.NewFields().
		WithOperation(log.OpAddTransaction).
		WithTransaction(t.ID.String(), t.Account, string(t.Type), t.Amount.String()).
		WithVersion(s.store.Version()).
		ToSlice()...)
	s.publish(ctx, s.event(amqp.KindTransactionAdded, t))
	return t, nil
}

// EditTransaction replaces every field of the transaction except its id.
// Transfer legs cannot be edited. The overdraft check runs against the ledger
// without the old version of the record.
func (s *LedgerService) EditTransaction(ctx context.Context, id string, in core.TransactionInput, confirm core.Confirmer) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.store.Find(strings.TrimSpace(id))
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("edit transaction: %w: %q", core.ErrTransactionNotFound, id)
	}
	old := s.store.At(i)
	if old.IsTransferLeg() {
		return core.Transaction{}, fmt.Errorf("edit transaction %s: %w", old.ID, core.ErrTransferLeg)
	}

	t, err := s.validate(in, old.Category)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("edit transaction %s: %w", old.ID, err)
	}
	t.ID = old.ID

	if t.Type == core.Expense {
		balance := s.store.BalancesWithout(i).Of(t.Account)
		if err := s.checkOverdraft(ctx, confirm, t, balance); err != nil {
			return core.Transaction{}, fmt.Errorf("edit transaction %s: %w", old.ID, err)
		}
	}

	s.store.Replace(i, t)

	s.logger.InfoContext(ctx, "Transaction edited", log.NewFields().
		WithOperation(log.OpEditTransaction).
		WithTransaction(t.ID.String(), t.Account, string(t.Type), t.Amount.String()).
		WithVersion(s.store.Version()).
		ToSlice()...)
	s.publish(ctx, s.event(amqp.KindTransactionEdited, t))
	return t, nil
}

// DeleteTransaction removes one transaction. Deleting a transfer leg succeeds
// and reports it through DeleteResult.OrphanedLeg; the paired leg stays.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.store.Find(strings.TrimSpace(id))
	if i < 0 {
		return DeleteResult{}, fmt.Errorf("delete transaction: %w: %q", core.ErrTransactionNotFound, id)
	}
	removed := s.store.Remove(i)
	res := DeleteResult{Removed: removed, OrphanedLeg: removed.IsTransferLeg()}

	fields := log.NewFields().
		WithOperation(log.OpDeleteTransaction).
		WithTransaction(removed.ID.String(), removed.Account, string(removed.Type), removed.Amount.String()).
		WithVersion(s.store.Version())
	if res.OrphanedLeg {
		s.logger.WarnContext(ctx, "Transfer leg deleted, paired leg must be reconciled manually", fields.ToSlice()...)
	} else {
		s.logger.InfoContext(ctx, "Transaction deleted", fields.ToSlice()...)
	}
	s.publish(ctx, s.event(amqp.KindTransactionDeleted, removed))
	return res, nil
}

// TransferFunds moves an amount between two accounts as an expense on the
// source and an income on the destination. Both legs are added together or
// not at all.
func (s *LedgerService) TransferFunds(ctx context.Context, in core.TransferInput, confirm core.Confirmer) (core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Transfer{}, fmt.Errorf("transfer: %w", err)
	}
	from, to := strings.TrimSpace(in.From), strings.TrimSpace(in.To)
	if from == "" || to == "" {
		return core.Transfer{}, fmt.Errorf("transfer: %w", core.ErrEmptyAccount)
	}
	if from == to {
		return core.Transfer{}, fmt.Errorf("transfer: %w", core.ErrSameAccount)
	}
	for _, a := range []string{from, to} {
		if !s.store.HasAccount(a) {
			return core.Transfer{}, fmt.Errorf("transfer: %w: %q", core.ErrUnknownAccount, a)
		}
	}
	if err := in.Amount.Validate(); err != nil {
		return core.Transfer{}, fmt.Errorf("transfer: %w", err)
	}

	tr := core.TransferLegs(date, from, to, in.Amount, s.transferStamp())
	balance := s.store.Balances().Of(from)
	if err := s.checkOverdraft(ctx, confirm, tr.Out, balance); err != nil {
		return core.Transfer{}, fmt.Errorf("transfer: %w", err)
	}

	s.store.Append(tr.Out, tr.In)

	s.logger.InfoContext(ctx, "Funds transferred",
		log.FieldOperation, log.OpTransfer,
		log.FieldFromAccount, from,
		log.FieldToAccount, to,
		log.FieldAmount, in.Amount.String(),
		log.FieldVersion, s.store.Version())
	ev := s.event(amqp.KindTransfer, tr.Out)
	s.publish(ctx, ev)
	return tr, nil
}

// transferStamp returns a stamp whose two leg ids are both unused.
func (s *LedgerService) transferStamp() string {
	for {
		stamp := s.newID()
		if !s.store.HasID("tf_out_"+stamp) && !s.store.HasID("tf_in_"+stamp) {
			return stamp
		}
	}
}

// validate builds the transaction described by in and checks it against the
// ledger. keepCategory is accepted even when no longer selectable, so an edit
// can leave a soft-orphaned category in place.
func (s *LedgerService) validate(in core.TransactionInput, keepCategory string) (core.Transaction, error) {
	t, err := in.Build(core.ID{})
	if err != nil {
		return core.Transaction{}, err
	}
	if !s.store.HasAccount(t.Account) {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrUnknownAccount, t.Account)
	}
	if t.Type == core.Expense && !s.store.HasCategory(t.Category) && t.Category != keepCategory {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrUnknownCategory, t.Category)
	}
	return t, nil
}

func (s *LedgerService) checkOverdraft(ctx context.Context, confirm core.Confirmer, t core.Transaction, balance core.Money) error {
	if t.Amount.Cmp(balance) <= 0 {
		return nil
	}
	w := &core.OverdraftWarning{Account: t.Account, Balance: balance, Amount: t.Amount}
	if err := core.Confirm(confirm, w); err != nil {
		s.logger.InfoContext(ctx, "Overdraft declined",
			log.FieldAccount, t.Account, log.FieldAmount, t.Amount.String(), log.FieldWarning, w.Error())
		return err
	}
	s.logger.WarnContext(ctx, "Overdraft confirmed",
		log.FieldAccount, t.Account, log.FieldAmount, t.Amount.String(), "balance", balance.String())
	return nil
}
