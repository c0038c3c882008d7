package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"finanze/internal/core"

	_ "modernc.org/sqlite"
)

const metaInitialized = "initialized"

// SQLiteRepository keeps the ledger in SQLite tables. It still has whole
// document semantics: Save replaces everything in one SQL transaction.
type SQLiteRepository struct {
	db            *sql.DB
	path          string
	schemaVersion uint
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	version, err := migrateLedgerSchema(dbPath)
	if err != nil {
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath, schemaVersion: version}, nil
}

func (r *SQLiteRepository) SchemaVersion() uint { return r.schemaVersion }

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements Repository. A database that was never saved to yields the
// seeded ledger.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Snapshot, error) {
	var initialized string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM ledger_meta WHERE key = ?`, metaInitialized).Scan(&initialized)
	if errors.Is(err, sql.ErrNoRows) {
		slog.InfoContext(ctx, "Empty ledger database, starting with defaults", "path", r.path)
		return core.SeedSnapshot(), nil
	}
	if err != nil {
		return core.SeedSnapshot(), fmt.Errorf("%w: read ledger meta: %w", core.ErrPersistence, err)
	}

	accounts, err := r.names(ctx, `SELECT name FROM accounts ORDER BY name`)
	if err != nil {
		return core.SeedSnapshot(), fmt.Errorf("%w: list accounts: %w", core.ErrPersistence, err)
	}
	categories, err := r.names(ctx, `SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return core.SeedSnapshot(), fmt.Errorf("%w: list categories: %w", core.ErrPersistence, err)
	}
	txs, err := r.transactions(ctx)
	if err != nil {
		return core.SeedSnapshot(), fmt.Errorf("%w: list transactions: %w", core.ErrPersistence, err)
	}

	snap := core.Snapshot{
		Accounts:     accounts,
		Categories:   dedupe(slices.Concat(categories, []string{core.ReservedCategory})),
		Transactions: txs,
	}
	slog.InfoContext(ctx, "Ledger loaded from SQLite",
		"path", r.path,
		"accounts", len(snap.Accounts),
		"transactions", len(snap.Transactions))
	return snap, nil
}

func (r *SQLiteRepository) names(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) transactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, id_numeric, date, account, description, amount_cents, type, category
		FROM transactions
		ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			id, date, account, description, typ string
			numeric                             int64
			cents                               int64
			category                            sql.NullString
		)
		if err := rows.Scan(&id, &numeric, &date, &account, &description, &cents, &typ, &category); err != nil {
			return nil, err
		}

		d, err := core.ParseDate(date)
		if err != nil {
			slog.WarnContext(ctx, "Skipping stored transaction with invalid date", "id", id, "date", date)
			continue
		}
		t := core.Transaction{
			ID:          core.NewID(id),
			Date:        d,
			Account:     account,
			Description: description,
			Amount:      core.Money{Cents: cents},
			Type:        core.Type(typ),
			Category:    category.String,
		}
		if numeric != 0 {
			t.ID = core.NumericID(id)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Save implements Repository.
func (r *SQLiteRepository) Save(ctx context.Context, snap core.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", core.ErrPersistence, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM transactions`, `DELETE FROM accounts`, `DELETE FROM categories`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: clear ledger: %w", core.ErrPersistence, err)
		}
	}
	for _, a := range dedupe(snap.Accounts) {
		if _, err = tx.ExecContext(ctx, `INSERT INTO accounts (name) VALUES (?)`, a); err != nil {
			return fmt.Errorf("%w: insert account %q: %w", core.ErrPersistence, a, err)
		}
	}
	for _, c := range dedupe(slices.Concat(snap.Categories, []string{core.ReservedCategory})) {
		if _, err = tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, c); err != nil {
			return fmt.Errorf("%w: insert category %q: %w", core.ErrPersistence, c, err)
		}
	}
	for _, t := range snap.Transactions {
		var numeric int64
		if t.ID.IsNumeric() {
			numeric = 1
		}
		var category sql.NullString
		if t.Type == core.Expense && t.Category != "" {
			category = sql.NullString{String: t.Category, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, id_numeric, date, account, description, amount_cents, type, category)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID.String(), numeric, t.Date.String(), t.Account, t.Description,
			t.Amount.Cents, string(t.Type), category)
		if err != nil {
			return fmt.Errorf("%w: insert transaction %s: %w", core.ErrPersistence, t.ID, err)
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_meta (key, value) VALUES (?, '1')
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, metaInitialized); err != nil {
		return fmt.Errorf("%w: mark initialized: %w", core.ErrPersistence, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", core.ErrPersistence, err)
	}

	slog.InfoContext(ctx, "Ledger saved to SQLite", "path", r.path, "transactions", len(snap.Transactions))
	return nil
}
