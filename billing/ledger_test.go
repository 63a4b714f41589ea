package billing_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
)

func day(d int) time.Time {
	return time.Date(2025, time.August, d, 10, 0, 0, 0, time.UTC)
}

// =============================================================================
// RECONSTRUCTION
// =============================================================================

func TestReconstructLedger_OrderInsensitive(t *testing.T) {
	// GIVEN: The same rows in two insertion orders
	// THEN: The reconstructed ledger is identical; the log is unordered by
	//       contract and the date (with id tiebreak) decides

	a := billing.Transaction{ID: 1, MemberID: 1, Type: billing.TxKas, Month: "2025-08", Amount: 25000, Date: day(1)}
	b := billing.Transaction{ID: 2, Type: billing.TxExpense, Month: "2025-08", Amount: -40000, Date: day(2)}
	c := billing.Transaction{ID: 3, MemberID: 2, Type: billing.TxKas, Month: "2025-08", Amount: 25000, Date: day(3)}

	forward := billing.ReconstructLedger([]billing.Transaction{a, b, c})
	shuffled := billing.ReconstructLedger([]billing.Transaction{c, a, b})

	assert.Equal(t, forward, shuffled)
	require.Len(t, forward, 3)
	assert.Equal(t, int64(25000), forward[0].Balance)
	assert.Equal(t, int64(-15000), forward[1].Balance)
	assert.Equal(t, int64(10000), forward[2].Balance)
}

func TestReconstructLedger_ExpenseIsDebit(t *testing.T) {
	// Expenses are stored negative; the ledger shows the absolute amount as
	// a debit and never as a negative credit.
	entries := billing.ReconstructLedger([]billing.Transaction{
		{ID: 1, Type: billing.TxExpense, Month: "2025-08", Amount: -40000, Date: day(1)},
	})
	require.Len(t, entries, 1)
	assert.Equal(t, int64(40000), entries[0].Debit)
	assert.Zero(t, entries[0].Credit)
	assert.Equal(t, int64(-40000), entries[0].Balance)
}

func TestReconstructLedger_PaymentIsCredit(t *testing.T) {
	entries := billing.ReconstructLedger([]billing.Transaction{
		{ID: 1, MemberID: 1, Type: billing.TxWifi, Month: "2025-08", Amount: 122100, Date: day(1)},
	})
	require.Len(t, entries, 1)
	assert.Equal(t, int64(122100), entries[0].Credit)
	assert.Zero(t, entries[0].Debit)
}

func TestReconstructLedger_SameInstantBreaksTiesByID(t *testing.T) {
	// Ids are creation timestamps, so the lower id posted first.
	at := day(5)
	entries := billing.ReconstructLedger([]billing.Transaction{
		{ID: 20, MemberID: 1, Type: billing.TxKas, Month: "2025-08", Amount: 100, Date: at},
		{ID: 10, MemberID: 2, Type: billing.TxKas, Month: "2025-08", Amount: 200, Date: at},
	})
	require.Len(t, entries, 2)
	assert.Equal(t, int64(10), entries[0].ID)
	assert.Equal(t, int64(200), entries[0].Balance)
	assert.Equal(t, int64(300), entries[1].Balance)
}

func TestReconstructLedger_FinalBalanceIsNetOfFlows(t *testing.T) {
	entries := billing.ReconstructLedger([]billing.Transaction{
		{ID: 1, MemberID: 1, Type: billing.TxKas, Month: "2025-06", Amount: 25000, Date: day(1)},
		{ID: 2, MemberID: 1, Type: billing.TxWifi, Month: "2025-06", Amount: 90000, Date: day(2)},
		{ID: 3, Type: billing.TxExpense, Month: "2025-06", Amount: -30000, Date: day(3)},
	})
	require.Len(t, entries, 3)
	assert.Equal(t, int64(85000), entries[2].Balance)
}

// =============================================================================
// GROUPING
// =============================================================================

func TestGroupLedger_BulkPaymentCollapses(t *testing.T) {
	// GIVEN: One member paying six kas months in a single sitting
	// THEN: The run collapses into one group carrying the summed credit and
	//       the last entry's balance

	var txs []billing.Transaction
	for i := 0; i < 6; i++ {
		txs = append(txs, billing.Transaction{
			ID:       int64(i + 1),
			MemberID: 1,
			Type:     billing.TxKas,
			Month:    billing.Month(fmt.Sprintf("2025-%02d", i+1)),
			Amount:   25000,
			Date:     day(10),
		})
	}

	groups := billing.GroupLedger(billing.ReconstructLedger(txs))
	require.Len(t, groups, 1)
	assert.Equal(t, int64(150000), groups[0].Credit)
	assert.Equal(t, int64(150000), groups[0].Balance)
	assert.Len(t, groups[0].Entries, 6)
}

func TestGroupLedger_DifferentKeysStaySeparate(t *testing.T) {
	// Same member and day but different type, then a different member: three
	// groups.
	entries := billing.ReconstructLedger([]billing.Transaction{
		{ID: 1, MemberID: 1, Type: billing.TxKas, Month: "2025-08", Amount: 25000, Date: day(10)},
		{ID: 2, MemberID: 1, Type: billing.TxWifi, Month: "2025-08", Amount: 90000, Date: day(10)},
		{ID: 3, MemberID: 2, Type: billing.TxKas, Month: "2025-08", Amount: 25000, Date: day(10)},
	})

	groups := billing.GroupLedger(entries)
	require.Len(t, groups, 3)
	assert.Equal(t, billing.TxKas, groups[0].Type)
	assert.Equal(t, billing.TxWifi, groups[1].Type)
	assert.Equal(t, int64(2), groups[2].MemberID)
}

func TestGroupLedger_OnlyAdjacentRunsMerge(t *testing.T) {
	// GIVEN: Two same-key runs separated by an unrelated row
	// THEN: They remain two groups; grouping never searches backwards

	entries := billing.ReconstructLedger([]billing.Transaction{
		{ID: 1, MemberID: 1, Type: billing.TxKas, Month: "2025-01", Amount: 25000, Date: day(10)},
		{ID: 2, MemberID: 2, Type: billing.TxKas, Month: "2025-01", Amount: 25000, Date: day(10)},
		{ID: 3, MemberID: 1, Type: billing.TxKas, Month: "2025-02", Amount: 25000, Date: day(10)},
	})

	groups := billing.GroupLedger(entries)
	require.Len(t, groups, 3)
	assert.Equal(t, int64(1), groups[0].MemberID)
	assert.Equal(t, int64(2), groups[1].MemberID)
	assert.Equal(t, int64(1), groups[2].MemberID)
}

func TestGroupLedger_DayBoundarySplits(t *testing.T) {
	entries := billing.ReconstructLedger([]billing.Transaction{
		{ID: 1, MemberID: 1, Type: billing.TxKas, Month: "2025-07", Amount: 25000, Date: day(10)},
		{ID: 2, MemberID: 1, Type: billing.TxKas, Month: "2025-08", Amount: 25000, Date: day(11)},
	})

	groups := billing.GroupLedger(entries)
	require.Len(t, groups, 2)
	assert.Equal(t, "2025-08-10", groups[0].Day)
	assert.Equal(t, "2025-08-11", groups[1].Day)
}

func TestGroupLedger_Empty(t *testing.T) {
	assert.Empty(t, billing.GroupLedger(nil))
}
