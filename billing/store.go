/*
store.go - Persistence interface for the five record collections

PURPOSE:
  Defines the interface between the engine and the backing store. Each
  collection is loaded whole before a computation and, for writes,
  replaced wholesale afterward - there is no partial update and no cached
  derived state.

NO-LOCKING / NO-TRANSACTION CONTRACT:
  Save* replaces the entire collection with whatever the caller passes.
  There is NO locking and NO cross-request transaction: two concurrent
  writers against the same collection race, and the last write wins. This
  is an explicit, documented consistency gap inherited from the
  whole-file read/modify/write storage model, not an accident. Callers
  that need uniqueness guarantees enforce them at the write boundary
  (see the journal package) before calling Save*.

IMPLEMENTATIONS:
  - billing/store: in-memory, for tests and development
  - store/jsonfile: one JSON file per collection (production)
  - store/sqlite:   same replace-wholesale semantics on SQLite

SEE ALSO:
  - journal/journal.go: Write boundary enforcing the uniqueness keys
*/
package billing

import "context"

// Store loads and saves the five record collections by logical dataset.
// Loads return fresh snapshots; mutating a returned slice never affects
// the store. Saves replace the whole collection (last write wins).
type Store interface {
	Members(ctx context.Context) ([]Member, error)
	SaveMembers(ctx context.Context, members []Member) error

	Transactions(ctx context.Context) ([]Transaction, error)
	SaveTransactions(ctx context.Context, transactions []Transaction) error

	WifiBills(ctx context.Context) ([]WifiBill, error)
	SaveWifiBills(ctx context.Context, bills []WifiBill) error

	WifiUsage(ctx context.Context) ([]WifiUsage, error)
	SaveWifiUsage(ctx context.Context, usage []WifiUsage) error

	WifiDebts(ctx context.Context) ([]WifiDebt, error)
	SaveWifiDebts(ctx context.Context, debts []WifiDebt) error
}
