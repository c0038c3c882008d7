// Package services applies ledger operations: it validates input against the
// current ledger, asks for confirmation on advisories, mutates the store
// atomically and announces the change.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"finanze/internal/amqp"
	"finanze/internal/cache"
	"finanze/internal/core"
	"finanze/internal/ledger"
	"finanze/internal/log"
	"finanze/internal/storage"
)

// Notifier announces ledger changes. Failures never fail the operation.
type Notifier interface {
	Publish(ctx context.Context, ev *amqp.LedgerEvent) error
}

// DeleteResult describes a removed transaction.
type DeleteResult struct {
	Removed core.Transaction
	// OrphanedLeg is set when Removed was one side of a transfer; the other
	// side is left in place and must be reconciled by hand.
	OrphanedLeg bool
}

// LedgerService is the single entry point for reading and changing the
// ledger. All methods are safe for concurrent use; a single mutex serializes
// them. Confirmers run while the lock is held and must not call back into
// the service.
type LedgerService struct {
	mu       sync.Mutex
	store    *ledger.Store
	repo     storage.Repository
	notifier Notifier
	reports  cache.Cache[core.Summary]
	newID    func() string
	logger   *log.Logger
}

type Option func(*LedgerService)

func WithNotifier(n Notifier) Option {
	return func(s *LedgerService) { s.notifier = n }
}

func WithReportCache(c cache.Cache[core.Summary]) Option {
	return func(s *LedgerService) { s.reports = c }
}

// WithIDGenerator replaces the uuid source used for transaction ids.
func WithIDGenerator(f func() string) Option {
	return func(s *LedgerService) { s.newID = f }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l.WithComponent(log.ComponentLedger) }
}

// NewLedgerService returns a service over an empty ledger. Call Load to read
// the repository.
func NewLedgerService(repo storage.Repository, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:   ledger.New(core.Snapshot{}),
		repo:    repo,
		reports: cache.Nop[core.Summary]{},
		newID:   uuid.NewString,
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory ledger with the repository content. When the
// stored document is unusable the seeded default ledger is installed and the
// persistence error is returned for the caller to report.
func (s *LedgerService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	s.store.Restore(snap)
	s.reports.Purge()
	if err != nil {
		s.logger.ErrorContext(ctx, "Ledger load failed, using defaults",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
		return err
	}
	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldCount, len(snap.Transactions),
		log.FieldVersion, s.store.Version())
	return nil
}

// Save writes the whole ledger. In-memory state is kept on failure.
func (s *LedgerService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, s.store.Snapshot()); err != nil {
		s.logger.ErrorContext(ctx, "Ledger save failed",
			log.FieldOperation, log.OpSave, log.FieldError, err)
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *LedgerService) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

func (s *LedgerService) Accounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Accounts()
}

func (s *LedgerService) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Categories()
}

// Version changes whenever the ledger does.
func (s *LedgerService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Version()
}

// Balances computes per-account balances and their total.
func (s *LedgerService) Balances() core.Balances {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Balances()
}

// Transaction returns the transaction with the given id.
func (s *LedgerService) Transaction(id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.store.Find(strings.TrimSpace(id))
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrTransactionNotFound, id)
	}
	return s.store.At(i), nil
}

// Close releases the repository and, when it holds one, the notifier connection.
func (s *LedgerService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.notifier.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}

// uniqueID returns prefix+uuid, retrying in the unlikely case it is taken.
func (s *LedgerService) uniqueID(prefix string) string {
	for {
		id := prefix + s.newID()
		if !s.store.HasID(id) {
			return id
		}
	}
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			"kind", ev.Kind, log.FieldError, err)
	}
}

func (s *LedgerService) event(kind string, t core.Transaction) *amqp.LedgerEvent {
	ev := amqp.NewLedgerEvent(kind, s.store.Version())
	ev.ID = t.ID.String()
	ev.Account = t.Account
	ev.Amount = t.Amount.String()
	return ev
}
