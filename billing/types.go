/*
Package billing is the core billing and reconciliation engine.

PURPOSE:
  This package contains the pure computations behind the shared-residence
  cash book: pricing the monthly kas due, splitting the shared WiFi bill
  across declared usage levels, detecting arrears by diffing an obligation
  timeline against the payment log, and reconstructing a chronological
  running balance from an unordered transaction log.

KEY CONCEPTS IN THIS FILE (types.go):
  - Member: A resident with a residency tier (full/half/none)
  - Transaction: An immutable payment/expense fact in the log
  - WifiBill: The total WiFi bill for one month
  - WifiUsage: A member's declared usage level for one month
  - WifiDebt: A manually tracked WiFi charge outside the allocator

DESIGN PRINCIPLES:
  1. Log as truth: every derived figure (balance, arrears, payment status)
     is recomputed from the record collections; nothing derived is stored
  2. Snapshots: transactions and debts carry a denormalized memberName so
     history survives member deletion
  3. Purity: every computation is a total function over freshly loaded,
     immutable snapshots; no I/O happens inside this package

USAGE:
  amount, err := billing.PriceKas("2025-08", billing.StatusFull)
  share := billing.AllocateWifi(305250, 1, 2)
  arrears, err := billing.ComputeArrears(members, txs, debts, current)

SEE ALSO:
  - tariff.go:  Kas pricing with the 2025-07 regime cutover
  - wifi.go:    Proportional WiFi allocation
  - arrears.go: Expected-vs-paid reconciliation
  - ledger.go:  Running balance reconstruction
  - summary.go: Month-bucketed reporting
*/
package billing

import "time"

// =============================================================================
// RESIDENCY STATUS - The member's default tariff tier
// =============================================================================

type Status string

const (
	StatusFull Status = "full"
	StatusHalf Status = "half"
	StatusNone Status = "none"
)

// Known reports whether s is one of the three recognized tiers.
// Pricing never defaults an unknown tier; see PriceKas.
func (s Status) Known() bool {
	return s == StatusFull || s == StatusHalf || s == StatusNone
}

// =============================================================================
// USAGE LEVEL - Declared WiFi consumption for a month
// =============================================================================

type UsageLevel string

const (
	LevelFull UsageLevel = "full"
	LevelHalf UsageLevel = "half"
)

func (l UsageLevel) Known() bool { return l == LevelFull || l == LevelHalf }

// =============================================================================
// TRANSACTION TYPE
// =============================================================================

type TransactionType string

const (
	TxKas  TransactionType = "kas"
	TxWifi TransactionType = "wifi"
	// TxExpense keeps the original ledger's Indonesian tag so existing
	// data files remain readable.
	TxExpense TransactionType = "pengeluaran"
)

func (t TransactionType) Known() bool {
	return t == TxKas || t == TxWifi || t == TxExpense
}

// =============================================================================
// RECORDS - The five durable collections
// =============================================================================

// Member is a current resident. Status is the member's default residency
// tier, used as the fallback when pricing arrears for months with no
// explicit payment record. Deletion does not cascade to transactions.
type Member struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// Transaction is one payment or expense fact. Amounts are whole rupiah:
// negative for expenses, non-negative otherwise. Month is the period the
// payment covers; Date is when the row was posted. The rest of the system
// treats (MemberID, Type, Month) as the de facto uniqueness key for
// "has this member paid for this month" - the log itself does not enforce
// it, so readers must tolerate duplicates (any match counts as paid).
type Transaction struct {
	ID         int64           `json:"id"`
	MemberID   int64           `json:"memberId"` // 0 = non-member / expense row
	MemberName string          `json:"memberName"`
	Type       TransactionType `json:"type"`
	Month      Month           `json:"month"`
	Amount     int64           `json:"amount"`
	Status     string          `json:"status"` // free-form tag: "full", "half", "admin-set", "expense", ...
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes"`
}

// IsExpense reports whether the row debits the communal fund.
func (t Transaction) IsExpense() bool { return t.Type == TxExpense }

// WifiBill is the total WiFi bill for one month. Month is unique across
// the collection; bills are upserted by month.
type WifiBill struct {
	Month  Month `json:"month"`
	Amount int64 `json:"amount"`
}

// WifiUsage is a member's declared usage level for one month. A member has
// at most one declaration per month; resubmission replaces it.
type WifiUsage struct {
	ID         int64      `json:"id"`
	MemberID   int64      `json:"memberId"`
	MemberName string     `json:"memberName"`
	Month      Month      `json:"month"`
	Level      UsageLevel `json:"level"`
	Date       time.Time  `json:"date"`
}

// WifiDebt is a manually entered WiFi charge that predates or bypasses the
// usage/allocation mechanism, e.g. owed by someone who already moved out.
// It has no corresponding Transaction; it is settled by being removed.
type WifiDebt struct {
	ID         int64  `json:"id"`
	MemberID   int64  `json:"memberId"` // 0 or a departed member's original id
	MemberName string `json:"memberName"`
	Month      Month  `json:"month"`
	Amount     int64  `json:"amount"`
}
