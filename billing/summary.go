/*
summary.go - Month-bucketed reporting

PURPOSE:
  Aggregates the log into the dashboard figures: global kas totals, the
  month-by-month kas/wifi/expense buckets, each member's payment status
  for the current month, and the yearly recap grid.

THE KAS BALANCE EXCLUDES WIFI:
  WiFi money is a pass-through collected on behalf of the provider, not
  part of the communal fund. The balance is kas income minus expenses;
  WiFi income only appears in the per-month buckets and per-member status.
*/
package billing

import (
	"fmt"
	"sort"
)

// =============================================================================
// SUMMARY TYPES
// =============================================================================

// MemberStatus is one member's derived payment state for the current
// month. It is always recomputed from the log; no paid flag is stored.
type MemberStatus struct {
	Member
	HasPaidKas  bool  `json:"hasPaidKas"`
	KasAmount   int64 `json:"kasAmount"`
	HasPaidWifi bool  `json:"hasPaidWifi"`
	WifiAmount  int64 `json:"wifiAmount"`
}

// MonthlyTotals is one month's bucket. Expense is stored as the absolute
// value even though expense rows carry negative amounts.
type MonthlyTotals struct {
	Month   Month `json:"month"`
	Kas     int64 `json:"kas"`
	Wifi    int64 `json:"wifi"`
	Expense int64 `json:"expense"`
}

// Summary is the aggregate view over a full snapshot.
type Summary struct {
	KasBalance        int64           `json:"kasBalance"`
	TotalKasIncome    int64           `json:"totalKasIncome"`
	TotalExpense      int64           `json:"totalExpense"`
	CurrentMonth      Month           `json:"currentMonth"`
	CurrentWifiBill   int64           `json:"currentWifiBill"`
	MemberStatus      []MemberStatus  `json:"memberStatus"`
	Monthly           []MonthlyTotals `json:"monthly"`
	TotalMembers      int             `json:"totalMembers"`
	TotalTransactions int             `json:"totalTransactions"`
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Summarize buckets the log by month and derives the current-month payment
// status per member via a direct (memberId, type, month) lookup.
func Summarize(members []Member, transactions []Transaction, bills []WifiBill, currentMonth Month) Summary {
	s := Summary{
		CurrentMonth:      currentMonth,
		TotalMembers:      len(members),
		TotalTransactions: len(transactions),
	}

	buckets := make(map[Month]*MonthlyTotals)
	for _, tx := range transactions {
		b := buckets[tx.Month]
		if b == nil {
			b = &MonthlyTotals{Month: tx.Month}
			buckets[tx.Month] = b
		}
		switch tx.Type {
		case TxKas:
			s.TotalKasIncome += tx.Amount
			b.Kas += tx.Amount
		case TxWifi:
			b.Wifi += tx.Amount
		case TxExpense:
			s.TotalExpense += abs(tx.Amount)
			b.Expense += abs(tx.Amount)
		}
	}
	s.KasBalance = s.TotalKasIncome - s.TotalExpense

	for _, b := range buckets {
		s.Monthly = append(s.Monthly, *b)
	}
	sort.Slice(s.Monthly, func(i, j int) bool { return s.Monthly[i].Month < s.Monthly[j].Month })

	for _, bill := range bills {
		if bill.Month == currentMonth {
			s.CurrentWifiBill = bill.Amount
			break
		}
	}

	s.MemberStatus = make([]MemberStatus, len(members))
	for i, m := range members {
		ms := MemberStatus{Member: m}
		if tx := FindPayment(transactions, m.ID, TxKas, currentMonth); tx != nil {
			ms.HasPaidKas = true
			ms.KasAmount = tx.Amount
		}
		if tx := FindPayment(transactions, m.ID, TxWifi, currentMonth); tx != nil {
			ms.HasPaidWifi = true
			ms.WifiAmount = tx.Amount
		}
		s.MemberStatus[i] = ms
	}

	return s
}

// FindPayment returns the first transaction matching the de facto
// uniqueness key (memberId, type, month), or nil. Duplicate rows for the
// triple are anomalous; any match counts as paid.
func FindPayment(transactions []Transaction, memberID int64, typ TransactionType, month Month) *Transaction {
	for i, tx := range transactions {
		if tx.MemberID == memberID && tx.Type == typ && tx.Month == month {
			return &transactions[i]
		}
	}
	return nil
}

// =============================================================================
// RECAP GRID - Member x month matrix for one year
// =============================================================================

// RecapRow is one member's payments of a given type across a calendar
// year. Amounts[i] is January+i; nil means no payment recorded.
type RecapRow struct {
	Member  Member     `json:"member"`
	Amounts [12]*int64 `json:"amounts"`
}

// Recap builds the yearly payment grid shown on the dashboard.
func Recap(members []Member, transactions []Transaction, year int, typ TransactionType) []RecapRow {
	rows := make([]RecapRow, len(members))
	for i, m := range members {
		row := RecapRow{Member: m}
		for mo := 0; mo < 12; mo++ {
			month := Month(fmt.Sprintf("%04d-%02d", year, mo+1))
			if tx := FindPayment(transactions, m.ID, typ, month); tx != nil {
				amount := tx.Amount
				row.Amounts[mo] = &amount
			}
		}
		rows[i] = row
	}
	return rows
}
