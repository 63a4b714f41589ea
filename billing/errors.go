/*
errors.go - Centralized error types for the billing engine

PURPOSE:
  All engine-level errors in one place for consistency and discoverability.
  Callers (journal, api) wrap these with additional context.

ERROR CATEGORIES:
  1. Input errors  - Malformed months, unknown tiers/levels/types
  2. Range errors  - Timeline generation with start after end

NOTE:
  The WiFi allocator's divide-by-zero condition is NOT an error: a zero
  bill or zero participants yields zero shares by definition. Guards live
  in AllocateWifi itself.

USAGE:
  if errors.Is(err, billing.ErrInvalidStatus) { ... }

SEE ALSO:
  - tariff.go: Returns ErrInvalidStatus
  - month.go:  Returns ErrInvalidMonth / ErrInvalidMonthRange
*/
package billing

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidStatus is returned when an unrecognized residency tier is
	// passed to the tariff calculator. Pricing must never silently default.
	ErrInvalidStatus = errors.New("invalid residency status")

	// ErrInvalidMonth is returned for a month key that is not a canonical
	// "YYYY-MM" string.
	ErrInvalidMonth = errors.New("invalid month key")

	// ErrInvalidMonthRange is returned when a timeline is requested with
	// start after end.
	ErrInvalidMonthRange = errors.New("invalid month range: start after end")

	// ErrInvalidLevel is returned for an unrecognized WiFi usage level.
	ErrInvalidLevel = errors.New("invalid wifi usage level")

	// ErrUnknownTransactionType is returned for a transaction type outside
	// kas/wifi/pengeluaran.
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// IsClientError returns true if the error is due to invalid caller input.
// These are recoverable by correcting the input; retrying a deterministic
// computation with the same input fails the same way.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidMonthRange) ||
		errors.Is(err, ErrInvalidLevel) ||
		errors.Is(err, ErrUnknownTransactionType)
}
