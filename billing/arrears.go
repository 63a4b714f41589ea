/*
arrears.go - Expected-vs-paid reconciliation

PURPOSE:
  Detects who still owes what by diffing each member's obligation timeline
  against the payment log, then attaching manually tracked WiFi debts.

HOW THE TIMELINE IS ANCHORED:
  A member's kas obligation starts at the FIRST month that member has any
  kas transaction, not at member creation. A member with zero kas history
  generates no timeline and therefore no kas arrears.

PRICING POLICY:
  Missing months are priced at the member's CURRENT residency tier, even
  for past months. The log does not record status history, so historical
  tiers are unrecoverable; this is a confirmed policy decision.

NON-MEMBER DEBTS:
  WiFi debts whose memberId is 0 or matches no current member are grouped
  by memberName into synthetic entries, so charges owed by people who
  already moved out stay visible until settled.
*/
package billing

import "sort"

// =============================================================================
// ARREARS RECORDS
// =============================================================================

// MonthCharge is one unpaid month with its priced amount.
type MonthCharge struct {
	Month  Month `json:"month"`
	Amount int64 `json:"amount"`
}

// Arrears is everything one member (or one departed person, grouped by
// name) still owes. MemberID is 0 for synthetic non-member entries.
type Arrears struct {
	MemberID   int64         `json:"memberId"`
	Name       string        `json:"name"`
	Status     Status        `json:"status"`
	UnpaidKas  []MonthCharge `json:"unpaidKas"`
	UnpaidWifi []MonthCharge `json:"unpaidWifi"`
	TotalKas   int64         `json:"totalKas"`
	TotalWifi  int64         `json:"totalWifi"`
}

// TotalOwed is the combined kas + WiFi debt.
func (a Arrears) TotalOwed() int64 { return a.TotalKas + a.TotalWifi }

// =============================================================================
// DETECTOR
// =============================================================================

// ComputeArrears reconciles the member roster, the transaction log, and the
// manual WiFi debt list into per-person arrears as of currentMonth.
// Only people with at least one unpaid kas month or one WiFi debt appear.
// Records are ordered by total owed descending; ties keep input order.
//
// The function is pure: the same snapshot always yields the same output,
// and none of the inputs are mutated.
func ComputeArrears(members []Member, transactions []Transaction, debts []WifiDebt, currentMonth Month) ([]Arrears, error) {
	var arrears []Arrears

	memberIDs := make(map[int64]bool, len(members))
	for _, m := range members {
		memberIDs[m.ID] = true
	}

	for _, m := range members {
		unpaidKas, err := unpaidKasMonths(m, transactions, currentMonth)
		if err != nil {
			return nil, err
		}

		var unpaidWifi []MonthCharge
		for _, d := range debts {
			if d.MemberID == m.ID {
				unpaidWifi = append(unpaidWifi, MonthCharge{Month: d.Month, Amount: d.Amount})
			}
		}

		if len(unpaidKas) == 0 && len(unpaidWifi) == 0 {
			continue
		}
		arrears = append(arrears, Arrears{
			MemberID:   m.ID,
			Name:       m.Name,
			Status:     m.Status,
			UnpaidKas:  unpaidKas,
			UnpaidWifi: unpaidWifi,
			TotalKas:   sumCharges(unpaidKas),
			TotalWifi:  sumCharges(unpaidWifi),
		})
	}

	// Debts of people who are no longer (or never were) members, grouped by
	// the name snapshot in first-appearance order.
	var names []string
	grouped := make(map[string][]MonthCharge)
	for _, d := range debts {
		if d.MemberID != 0 && memberIDs[d.MemberID] {
			continue
		}
		if _, seen := grouped[d.MemberName]; !seen {
			names = append(names, d.MemberName)
		}
		grouped[d.MemberName] = append(grouped[d.MemberName], MonthCharge{Month: d.Month, Amount: d.Amount})
	}
	for _, name := range names {
		charges := grouped[name]
		arrears = append(arrears, Arrears{
			Name:       name,
			Status:     StatusNone,
			UnpaidWifi: charges,
			TotalWifi:  sumCharges(charges),
		})
	}

	sort.SliceStable(arrears, func(i, j int) bool {
		return arrears[i].TotalOwed() > arrears[j].TotalOwed()
	})
	return arrears, nil
}

// unpaidKasMonths diffs the member's obligation timeline against the
// months that have a recorded kas transaction. Any match counts as paid:
// duplicate rows for one (member, month) are anomalous but tolerated.
func unpaidKasMonths(m Member, transactions []Transaction, currentMonth Month) ([]MonthCharge, error) {
	paid := make(map[Month]bool)
	var first Month
	for _, tx := range transactions {
		if tx.MemberID != m.ID || tx.Type != TxKas {
			continue
		}
		paid[tx.Month] = true
		if first == "" || tx.Month < first {
			first = tx.Month
		}
	}
	if len(paid) == 0 {
		// No kas history: no timeline, no arrears, regardless of member age.
		return nil, nil
	}
	if first > currentMonth {
		// Paid ahead: the obligation timeline has not started yet.
		return nil, nil
	}

	timeline, err := MonthsBetween(first, currentMonth)
	if err != nil {
		return nil, err
	}

	var unpaid []MonthCharge
	for _, month := range timeline {
		if paid[month] {
			continue
		}
		amount, err := PriceKas(month, m.Status)
		if err != nil {
			return nil, err
		}
		unpaid = append(unpaid, MonthCharge{Month: month, Amount: amount})
	}
	return unpaid, nil
}

func sumCharges(charges []MonthCharge) int64 {
	var total int64
	for _, c := range charges {
		total += c.Amount
	}
	return total
}
