package billing

import "fmt"

// =============================================================================
// TARIFF - Kas pricing with the July 2025 regime cutover
// =============================================================================

// CutoverMonth is the month (inclusive) from which the new kas tariff
// applies. Months are canonical strings, so >= compares calendar order.
const CutoverMonth Month = "2025-07"

// Kas tariff per tier, in whole rupiah. The "none" tier is flat across
// both regimes.
const (
	kasFullOld int64 = 25000
	kasHalfOld int64 = 12500
	kasFullNew int64 = 30000
	kasHalfNew int64 = 15000
	kasNone    int64 = 10000
)

// PriceKas returns the kas due for the given month and residency tier.
// Total over {full, half, none}; any other tier fails with
// ErrInvalidStatus rather than silently defaulting.
func PriceKas(month Month, status Status) (int64, error) {
	if !month.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}

	switch status {
	case StatusNone:
		return kasNone, nil
	case StatusFull:
		if month >= CutoverMonth {
			return kasFullNew, nil
		}
		return kasFullOld, nil
	case StatusHalf:
		if month >= CutoverMonth {
			return kasHalfNew, nil
		}
		return kasHalfOld, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}
