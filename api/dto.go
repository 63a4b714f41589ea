/*
dto.go - Request/response types for the HTTP API

PURPOSE:
  JSON structures for API communication, decoupling the wire contract
  from the domain records. The read DTOs intentionally match the field
  names the original frontend consumed (memberId, hasPaidKas, ...).

NAMING CONVENTION:
  - *Request: Request body types from clients
  - Everything else: response shapes

VALIDATION:
  Handlers parse and hand off to the journal/engine; deep validation
  (months, tiers, signs, uniqueness) lives there, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreateMemberRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type UpdateMemberRequest struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type CreateTransactionRequest struct {
	MemberID int64  `json:"memberId"`
	Type     string `json:"type"`
	Month    string `json:"month"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

type UpsertWifiBillRequest struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

type UpsertWifiUsageRequest struct {
	MemberID int64  `json:"memberId"`
	Month    string `json:"month"`
	Level    string `json:"level"`
}

type CreateWifiDebtRequest struct {
	MemberID   int64  `json:"memberId"`
	MemberName string `json:"memberName"`
	Month      string `json:"month"`
	Amount     int64  `json:"amount"`
}

type QuoteRequest struct {
	MemberID int64 `json:"memberId"`
	Kas      []struct {
		Month  string `json:"month"`
		Status string `json:"status"`
	} `json:"kas"`
	WifiMonths []string `json:"wifiMonths"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LedgerResponse pairs the per-transaction timeline with its display
// grouping so clients don't re-derive either.
type LedgerResponse struct {
	Timeline []billing.LedgerEntry `json:"timeline"`
	Groups   []billing.LedgerGroup `json:"groups"`
}

// ErrorResponse is the standard error shape.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
