/*
Package jsonfile persists each record collection as one JSON file.

PURPOSE:
  The production store: members.json, transactions.json, wifi-bills.json,
  wifi-usage.json, wifi-debts.json under one data directory. Reads load
  the whole file; writes replace the whole file. A missing file reads as
  an empty collection.

CONSISTENCY:
  Honors the billing.Store contract literally: there is no file locking
  and no write-ahead anything. Two processes (or two requests) writing
  the same collection race, and the last write wins. The journal package
  enforces uniqueness keys before data reaches this layer; this layer
  only ferries bytes.

SEE ALSO:
  - billing/store.go: The contract this implements
  - store/sqlite:     The same semantics on SQLite
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
)

// Dataset file names, matching the original data/ layout so existing data
// directories load as-is.
const (
	fileMembers      = "members.json"
	fileTransactions = "transactions.json"
	fileWifiBills    = "wifi-bills.json"
	fileWifiUsage    = "wifi-usage.json"
	fileWifiDebts    = "wifi-debts.json"
)

type Store struct {
	dir string
}

// New creates the data directory if needed and returns the store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Members(_ context.Context) ([]billing.Member, error) {
	return load[billing.Member](s, fileMembers)
}

func (s *Store) SaveMembers(_ context.Context, members []billing.Member) error {
	return save(s, fileMembers, members)
}

func (s *Store) Transactions(_ context.Context) ([]billing.Transaction, error) {
	return load[billing.Transaction](s, fileTransactions)
}

func (s *Store) SaveTransactions(_ context.Context, transactions []billing.Transaction) error {
	return save(s, fileTransactions, transactions)
}

func (s *Store) WifiBills(_ context.Context) ([]billing.WifiBill, error) {
	return load[billing.WifiBill](s, fileWifiBills)
}

func (s *Store) SaveWifiBills(_ context.Context, bills []billing.WifiBill) error {
	return save(s, fileWifiBills, bills)
}

func (s *Store) WifiUsage(_ context.Context) ([]billing.WifiUsage, error) {
	return load[billing.WifiUsage](s, fileWifiUsage)
}

func (s *Store) SaveWifiUsage(_ context.Context, usage []billing.WifiUsage) error {
	return save(s, fileWifiUsage, usage)
}

func (s *Store) WifiDebts(_ context.Context) ([]billing.WifiDebt, error) {
	return load[billing.WifiDebt](s, fileWifiDebts)
}

func (s *Store) SaveWifiDebts(_ context.Context, debts []billing.WifiDebt) error {
	return save(s, fileWifiDebts, debts)
}

// load reads one collection. A missing file is an empty collection, so a
// fresh data directory needs no seeding.
func load[T any](s *Store, name string) ([]T, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return records, nil
}

// save replaces the whole file. Indented output keeps the files
// hand-inspectable, same as the original data dumps.
func save[T any](s *Store, name string, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
