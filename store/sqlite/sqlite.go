/*
Package sqlite provides a SQLite-backed implementation of billing.Store.

PURPOSE:
  An alternative to the JSON-file store for deployments that prefer a
  single database file. It deliberately keeps the SAME whole-collection
  semantics: every Save* deletes the table contents and re-inserts the
  collection inside one SQL transaction, so a save is still an atomic
  wholesale replacement and the last writer still wins across requests.

KEY TABLES:
  members:      Current roster
  transactions: The payment/expense log
  wifi_bills:   One row per month (month is the primary key)
  wifi_usage:   One declaration per (member, month)
  wifi_debts:   Manually tracked WiFi charges

WAL MODE:
  Opened with WAL so readers don't block during a save.

USAGE:
  store, err := sqlite.New("./data/kas.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()

MIGRATION:
  Schema is auto-created on New(). There is exactly one schema version;
  the record shapes are flat and stable.

SEE ALSO:
  - billing/store.go:  The contract this implements
  - store/jsonfile:    The file-per-collection store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
)

// Store implements billing.Store on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS members (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL,
		member_name TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		month TEXT NOT NULL,
		amount INTEGER NOT NULL,
		status TEXT NOT NULL,
		date TEXT NOT NULL,
		notes TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wifi_bills (
		month TEXT PRIMARY KEY,
		amount INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wifi_usage (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL,
		member_name TEXT NOT NULL,
		month TEXT NOT NULL,
		level TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wifi_debts (
		id INTEGER PRIMARY KEY,
		member_id INTEGER NOT NULL,
		member_name TEXT NOT NULL,
		month TEXT NOT NULL,
		amount INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MEMBERS
// =============================================================================

func (s *Store) Members(ctx context.Context) ([]billing.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, status FROM members ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []billing.Member
	for rows.Next() {
		var m billing.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Status); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) SaveMembers(ctx context.Context, members []billing.Member) error {
	return s.replace(ctx, "members", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO members (id, name, status) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range members {
			if _, err := stmt.ExecContext(ctx, m.ID, m.Name, m.Status); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) Transactions(ctx context.Context) ([]billing.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, member_name, tx_type, month, amount, status, date, notes
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []billing.Transaction
	for rows.Next() {
		var t billing.Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.MemberID, &t.MemberName, &t.Type, &t.Month, &t.Amount, &t.Status, &date, &t.Notes); err != nil {
			return nil, err
		}
		if t.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("transaction %d: bad date %q: %w", t.ID, date, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *Store) SaveTransactions(ctx context.Context, transactions []billing.Transaction) error {
	return s.replace(ctx, "transactions", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions (id, member_id, member_name, tx_type, month, amount, status, date, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, t := range transactions {
			if _, err := stmt.ExecContext(ctx, t.ID, t.MemberID, t.MemberName, t.Type, t.Month,
				t.Amount, t.Status, t.Date.Format(time.RFC3339Nano), t.Notes); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// WIFI BILLS
// =============================================================================

func (s *Store) WifiBills(ctx context.Context) ([]billing.WifiBill, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT month, amount FROM wifi_bills ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []billing.WifiBill
	for rows.Next() {
		var b billing.WifiBill
		if err := rows.Scan(&b.Month, &b.Amount); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (s *Store) SaveWifiBills(ctx context.Context, bills []billing.WifiBill) error {
	return s.replace(ctx, "wifi_bills", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO wifi_bills (month, amount) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, b := range bills {
			if _, err := stmt.ExecContext(ctx, b.Month, b.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// WIFI USAGE
// =============================================================================

func (s *Store) WifiUsage(ctx context.Context) ([]billing.WifiUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, member_name, month, level, date FROM wifi_usage ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []billing.WifiUsage
	for rows.Next() {
		var u billing.WifiUsage
		var date string
		if err := rows.Scan(&u.ID, &u.MemberID, &u.MemberName, &u.Month, &u.Level, &date); err != nil {
			return nil, err
		}
		if u.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("wifi usage %d: bad date %q: %w", u.ID, date, err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func (s *Store) SaveWifiUsage(ctx context.Context, usage []billing.WifiUsage) error {
	return s.replace(ctx, "wifi_usage", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO wifi_usage (id, member_id, member_name, month, level, date)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, u := range usage {
			if _, err := stmt.ExecContext(ctx, u.ID, u.MemberID, u.MemberName, u.Month,
				u.Level, u.Date.Format(time.RFC3339Nano)); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// WIFI DEBTS
// =============================================================================

func (s *Store) WifiDebts(ctx context.Context) ([]billing.WifiDebt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, member_name, month, amount FROM wifi_debts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []billing.WifiDebt
	for rows.Next() {
		var d billing.WifiDebt
		if err := rows.Scan(&d.ID, &d.MemberID, &d.MemberName, &d.Month, &d.Amount); err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (s *Store) SaveWifiDebts(ctx context.Context, debts []billing.WifiDebt) error {
	return s.replace(ctx, "wifi_debts", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO wifi_debts (id, member_id, member_name, month, amount)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, d := range debts {
			if _, err := stmt.ExecContext(ctx, d.ID, d.MemberID, d.MemberName, d.Month, d.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// replace empties the table and re-inserts the collection inside one SQL
// transaction: an atomic wholesale replacement of one dataset.
func (s *Store) replace(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return err
	}
	if err := insert(tx); err != nil {
		return err
	}
	return tx.Commit()
}
