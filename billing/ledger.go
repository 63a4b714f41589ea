/*
ledger.go - Running balance reconstruction

PURPOSE:
  Rebuilds the chronological cash book from the unordered transaction log.
  The log is the only durable source of truth; the running balance is
  recomputed on every read, never stored.

ORDERING:
  The input is never assumed sorted. Entries are sorted ascending by
  posting date, with id (a creation timestamp) as the deterministic
  tiebreak for same-instant rows.

DEBIT / CREDIT:
  An expense row contributes its absolute amount as a debit; every other
  row contributes its amount as a credit. Balance after row i equals the
  balance after row i-1 plus credit minus debit.

GROUPING:
  For display, consecutive entries sharing (memberId, calendar day, type)
  merge into one group, summing debit/credit and taking the LAST entry's
  balance as the group snapshot. Grouping never re-sorts: two runs for the
  same member/day/type separated by a different row in between remain
  distinct groups. That is accepted behavior, not a defect.
*/
package billing

import "sort"

// =============================================================================
// LEDGER ENTRIES
// =============================================================================

const dayLayout = "2006-01-02"

// LedgerEntry is one transaction annotated with its debit/credit split and
// the running balance after it was applied.
type LedgerEntry struct {
	Transaction
	Debit   int64 `json:"debit"`
	Credit  int64 `json:"credit"`
	Balance int64 `json:"balance"`
}

// ReconstructLedger sorts the log by posting date and walks it, producing
// the debit/credit/running-balance view. The input slice is not mutated.
func ReconstructLedger(transactions []Transaction) []LedgerEntry {
	sorted := make([]Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	entries := make([]LedgerEntry, len(sorted))
	var balance int64
	for i, tx := range sorted {
		e := LedgerEntry{Transaction: tx}
		if tx.IsExpense() {
			e.Debit = abs(tx.Amount)
		} else {
			e.Credit = tx.Amount
		}
		balance += e.Credit - e.Debit
		e.Balance = balance
		entries[i] = e
	}
	return entries
}

// =============================================================================
// DISPLAY GROUPING
// =============================================================================

// LedgerGroup is a run of adjacent entries for the same member, day, and
// transaction type, e.g. one member paying six kas months at once.
type LedgerGroup struct {
	MemberID   int64           `json:"memberId"`
	MemberName string          `json:"memberName"`
	Type       TransactionType `json:"type"`
	Day        string          `json:"day"` // "YYYY-MM-DD" of the posting date
	Entries    []LedgerEntry   `json:"entries"`
	Debit      int64           `json:"debit"`
	Credit     int64           `json:"credit"`
	Balance    int64           `json:"balance"` // running balance after the last entry
}

// GroupLedger merges adjacent entries that share (memberId, day, type)
// while iterating the already-sorted sequence. It only merges neighbors;
// it never searches backwards for an earlier matching group.
func GroupLedger(entries []LedgerEntry) []LedgerGroup {
	var groups []LedgerGroup
	for _, e := range entries {
		day := e.Date.Format(dayLayout)
		if n := len(groups); n > 0 {
			g := &groups[n-1]
			if g.MemberID == e.MemberID && g.Day == day && g.Type == e.Type {
				g.Entries = append(g.Entries, e)
				g.Debit += e.Debit
				g.Credit += e.Credit
				g.Balance = e.Balance
				continue
			}
		}
		groups = append(groups, LedgerGroup{
			MemberID:   e.MemberID,
			MemberName: e.MemberName,
			Type:       e.Type,
			Day:        day,
			Entries:    []LedgerEntry{e},
			Debit:      e.Debit,
			Credit:     e.Credit,
			Balance:    e.Balance,
		})
	}
	return groups
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
