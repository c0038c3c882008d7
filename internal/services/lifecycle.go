package services

import (
	"context"
	"fmt"
	"strings"

	"finanze/internal/amqp"
	"finanze/internal/core"
	"finanze/internal/log"
)

func (s *LedgerService) AddAccount(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("add account: %w", core.ErrEmptyAccount)
	}
	if s.store.HasAccount(name) {
		return fmt.Errorf("add account: %w: %q", core.ErrDuplicateAccount, name)
	}
	s.store.AddAccount(name)

	s.logger.InfoContext(ctx, "Account added",
		log.FieldOperation, log.OpAddAccount, log.FieldAccount, name, log.FieldVersion, s.store.Version())
	ev := amqp.NewLedgerEvent(amqp.KindAccountAdded, s.store.Version())
	ev.Account = name
	s.publish(ctx, ev)
	return nil
}

// DeleteAccount removes an account no transaction refers to. The removal is
// permanent, so confirm is asked with a *core.DeleteAccountWarning first.
func (s *LedgerService) DeleteAccount(ctx context.Context, name string, confirm core.Confirmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if !s.store.HasAccount(name) {
		return fmt.Errorf("delete account: %w: %q", core.ErrAccountNotFound, name)
	}
	if s.store.References(name) {
		return fmt.Errorf("delete account %q: %w", name, core.ErrInUse)
	}
	if err := core.Confirm(confirm, &core.DeleteAccountWarning{Account: name}); err != nil {
		return fmt.Errorf("delete account %q: %w", name, err)
	}
	s.store.RemoveAccount(name)

	s.logger.InfoContext(ctx, "Account deleted",
		log.FieldOperation, log.OpDeleteAccount, log.FieldAccount, name, log.FieldVersion, s.store.Version())
	ev := amqp.NewLedgerEvent(amqp.KindAccountDeleted, s.store.Version())
	ev.Account = name
	s.publish(ctx, ev)
	return nil
}

func (s *LedgerService) AddCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("add category: %w", core.ErrEmptyCategory)
	case name == core.ReservedCategory, s.store.HasCategory(name):
		return fmt.Errorf("add category: %w: %q", core.ErrDuplicateCat, name)
	}
	s.store.AddCategory(name)

	s.logger.InfoContext(ctx, "Category added",
		log.FieldOperation, log.OpAddCategory, log.FieldCategory, name, log.FieldVersion, s.store.Version())
	s.publish(ctx, amqp.NewLedgerEvent(amqp.KindCategoryAdded, s.store.Version()))
	return nil
}

// DeleteCategory removes a category from the selectable set. Transactions
// already carrying it keep it.
func (s *LedgerService) DeleteCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == core.ReservedCategory {
		return fmt.Errorf("delete category: %w", core.ErrReservedCategory)
	}
	if !s.store.HasCategory(name) {
		return fmt.Errorf("delete category: %w: %q", core.ErrCategoryNotFound, name)
	}
	s.store.RemoveCategory(name)

	s.logger.InfoContext(ctx, "Category deleted",
		log.FieldOperation, log.OpDeleteCategory, log.FieldCategory, name, log.FieldVersion, s.store.Version())
	s.publish(ctx, amqp.NewLedgerEvent(amqp.KindCategoryDeleted, s.store.Version()))
	return nil
}
