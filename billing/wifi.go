/*
wifi.go - Proportional WiFi bill allocation

PURPOSE:
  Splits one month's WiFi bill across the members who declared usage that
  month. A half-month user consumes 0.75 "units" of a full-month user, so
  the unit cost is bill / (full + 0.75*half).

ROUNDING:
  Each share is rounded independently, half away from zero, via
  decimal.Round. The sum of all individual shares is therefore not
  guaranteed to equal the bill exactly; a drift of a few rupiah is an
  accepted property of the scheme, not a bug to redistribute away.

SEE ALSO:
  - quote.go: Uses ShareFor to price a member's WiFi months
*/
package billing

import "github.com/shopspring/decimal"

// halfWeight is the normalized usage weight of a half-month participant.
var halfWeight = decimal.RequireFromString("0.75")

// WifiShare is the per-participant outcome of splitting one bill.
type WifiShare struct {
	Full int64 `json:"fullShare"`
	Half int64 `json:"halfShare"`
}

// AllocateWifi splits totalBill across fullCount full-month and halfCount
// half-month participants. A zero bill or zero participants yields zero
// shares; this guards the division locally instead of erroring.
func AllocateWifi(totalBill int64, fullCount, halfCount int) WifiShare {
	if totalBill == 0 || fullCount+halfCount == 0 {
		return WifiShare{}
	}

	units := decimal.NewFromInt(int64(fullCount)).
		Add(halfWeight.Mul(decimal.NewFromInt(int64(halfCount))))
	unitCost := decimal.NewFromInt(totalBill).Div(units)

	return WifiShare{
		Full: unitCost.Round(0).IntPart(),
		Half: unitCost.Mul(halfWeight).Round(0).IntPart(),
	}
}

// WifiShareFor returns what one member owes for WiFi in a month, given the
// bill collection and the usage declarations. It returns 0 when the month
// has no bill, nobody declared usage, or the member did not declare.
func WifiShareFor(memberID int64, month Month, bills []WifiBill, usage []WifiUsage) int64 {
	var billAmount int64
	for _, b := range bills {
		if b.Month == month {
			billAmount = b.Amount
			break
		}
	}

	var full, half int
	var mine *WifiUsage
	for i, u := range usage {
		if u.Month != month {
			continue
		}
		switch u.Level {
		case LevelFull:
			full++
		case LevelHalf:
			half++
		}
		if u.MemberID == memberID {
			mine = &usage[i]
		}
	}

	if mine == nil {
		return 0
	}

	share := AllocateWifi(billAmount, full, half)
	if mine.Level == LevelHalf {
		return share.Half
	}
	return share.Full
}
