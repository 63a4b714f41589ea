// Package store provides the in-memory Store implementation used by tests
// and development setups.
package store

import (
	"context"
	"sync"

	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Memory holds the five collections in process memory. Loads return
// defensive copies; saves replace the collection wholesale, matching the
// billing.Store contract. The mutex only guards the Go maps/slices from
// data races - it deliberately does NOT turn read/modify/write sequences
// into transactions, so the last-write-wins gap is observable in tests.
type Memory struct {
	mu           sync.RWMutex
	members      []billing.Member
	transactions []billing.Transaction
	wifiBills    []billing.WifiBill
	wifiUsage    []billing.WifiUsage
	wifiDebts    []billing.WifiDebt
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Members(_ context.Context) ([]billing.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.members), nil
}

func (m *Memory) SaveMembers(_ context.Context, members []billing.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = copySlice(members)
	return nil
}

func (m *Memory) Transactions(_ context.Context) ([]billing.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.transactions), nil
}

func (m *Memory) SaveTransactions(_ context.Context, transactions []billing.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = copySlice(transactions)
	return nil
}

func (m *Memory) WifiBills(_ context.Context) ([]billing.WifiBill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.wifiBills), nil
}

func (m *Memory) SaveWifiBills(_ context.Context, bills []billing.WifiBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wifiBills = copySlice(bills)
	return nil
}

func (m *Memory) WifiUsage(_ context.Context) ([]billing.WifiUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.wifiUsage), nil
}

func (m *Memory) SaveWifiUsage(_ context.Context, usage []billing.WifiUsage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wifiUsage = copySlice(usage)
	return nil
}

func (m *Memory) WifiDebts(_ context.Context) ([]billing.WifiDebt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.wifiDebts), nil
}

func (m *Memory) SaveWifiDebts(_ context.Context, debts []billing.WifiDebt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wifiDebts = copySlice(debts)
	return nil
}

func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
