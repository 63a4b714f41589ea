/*
handlers.go - HTTP handlers for the cash book

PURPOSE:
  Exposes the billing engine and the journal over REST. Handlers parse
  the request, delegate to the journal (writes) or load a fresh snapshot
  and run the pure computation (reads), then serialize the result.
  Derived figures are recomputed on every read; nothing derived is
  cached between requests.

ENDPOINTS:
  Records:
    GET/POST/PUT/DELETE  /api/members
    GET/POST/DELETE      /api/transactions
    GET/POST/PUT         /api/wifi-bills,  DELETE /api/wifi-bills/{month}
    GET/POST/DELETE      /api/wifi-usage
    GET/POST/DELETE      /api/wifi-debts

  Derived views:
    GET  /api/summary          Month-bucketed totals + member status
    GET  /api/arrears          Who owes what
    GET  /api/ledger[?year=]   Running balance timeline + display groups
    GET  /api/recap?year=&type=  Member x month payment grid
    POST /api/quote            Price a payment before recording it

  Auth:
    POST /api/auth/login       Shared password -> bearer token

ERROR HANDLING:
  - 400: malformed input (bad month, unknown tier/level/type, bad sign)
  - 401: missing/invalid admin token
  - 404: unknown member/row
  - 409: duplicate payment for (member, type, month)
  - 500: store failures
  A declined operation never leaves a partial write behind.

SEE ALSO:
  - dto.go:    Request/response shapes
  - server.go: Router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
	"github.com/ryanekop/cashflow-kos-alhafidz/journal"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	Store   billing.Store
	Journal *journal.Journal
	Auth    *Authenticator

	// Now supplies "the current calendar month" for summary and arrears.
	// Injected so tests pin the month.
	Now func() time.Time
}

func NewHandler(store billing.Store, jnl *journal.Journal, auth *Authenticator) *Handler {
	return &Handler{Store: store, Journal: jnl, Auth: auth, Now: time.Now}
}

func (h *Handler) currentMonth() billing.Month {
	return billing.MonthOf(h.Now())
}

// =============================================================================
// AUTH
// =============================================================================

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	token, expires, err := h.Auth.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "wrong password", nil)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires})
}

// =============================================================================
// MEMBERS
// =============================================================================

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.Members(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members", err)
		return
	}
	if members == nil {
		members = []billing.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Status == "" {
		req.Status = string(billing.StatusFull)
	}
	member, err := h.Journal.AddMember(r.Context(), req.Name, billing.Status(req.Status))
	if err != nil {
		writeJournalError(w, "failed to create member", err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	member, err := h.Journal.UpdateMember(r.Context(), req.ID, req.Name, billing.Status(req.Status))
	if err != nil {
		writeJournalError(w, "failed to update member", err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id", err)
		return
	}
	if err := h.Journal.DeleteMember(r.Context(), id); err != nil {
		writeJournalError(w, "failed to delete member", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.Store.Transactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err)
		return
	}
	if transactions == nil {
		transactions = []billing.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	tx, err := h.Journal.AddTransaction(r.Context(), journal.TransactionInput{
		MemberID: req.MemberID,
		Type:     billing.TransactionType(req.Type),
		Month:    billing.Month(req.Month),
		Amount:   req.Amount,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		writeJournalError(w, "failed to record transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id", err)
		return
	}
	if err := h.Journal.DeleteTransaction(r.Context(), id); err != nil {
		writeJournalError(w, "failed to delete transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// =============================================================================
// WIFI BILLS
// =============================================================================

func (h *Handler) ListWifiBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Store.WifiBills(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wifi bills", err)
		return
	}
	if bills == nil {
		bills = []billing.WifiBill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *Handler) UpsertWifiBill(w http.ResponseWriter, r *http.Request) {
	var req UpsertWifiBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	bill, err := h.Journal.UpsertWifiBill(r.Context(), billing.Month(req.Month), req.Amount)
	if err != nil {
		writeJournalError(w, "failed to save wifi bill", err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *Handler) ReplaceWifiBills(w http.ResponseWriter, r *http.Request) {
	var bills []billing.WifiBill
	if err := json.NewDecoder(r.Body).Decode(&bills); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.Journal.ReplaceWifiBills(r.Context(), bills); err != nil {
		writeJournalError(w, "failed to replace wifi bills", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) DeleteWifiBill(w http.ResponseWriter, r *http.Request) {
	month := billing.Month(chi.URLParam(r, "month"))
	if err := h.Journal.DeleteWifiBill(r.Context(), month); err != nil {
		writeJournalError(w, "failed to delete wifi bill", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// =============================================================================
// WIFI USAGE
// =============================================================================

func (h *Handler) ListWifiUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.Store.WifiUsage(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wifi usage", err)
		return
	}
	if usage == nil {
		usage = []billing.WifiUsage{}
	}
	writeJSON(w, http.StatusOK, usage)
}

func (h *Handler) UpsertWifiUsage(w http.ResponseWriter, r *http.Request) {
	var req UpsertWifiUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	entry, err := h.Journal.UpsertWifiUsage(r.Context(), req.MemberID, billing.Month(req.Month), billing.UsageLevel(req.Level))
	if err != nil {
		writeJournalError(w, "failed to save wifi usage", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) DeleteWifiUsage(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id", err)
		return
	}
	if err := h.Journal.DeleteWifiUsage(r.Context(), id); err != nil {
		writeJournalError(w, "failed to delete wifi usage", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// =============================================================================
// WIFI DEBTS
// =============================================================================

func (h *Handler) ListWifiDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.Store.WifiDebts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wifi debts", err)
		return
	}
	if debts == nil {
		debts = []billing.WifiDebt{}
	}
	writeJSON(w, http.StatusOK, debts)
}

func (h *Handler) CreateWifiDebt(w http.ResponseWriter, r *http.Request) {
	var req CreateWifiDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	debt, err := h.Journal.AddWifiDebt(r.Context(), req.MemberID, req.MemberName, billing.Month(req.Month), req.Amount)
	if err != nil {
		writeJournalError(w, "failed to record wifi debt", err)
		return
	}
	writeJSON(w, http.StatusCreated, debt)
}

func (h *Handler) DeleteWifiDebt(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id", err)
		return
	}
	if err := h.Journal.DeleteWifiDebt(r.Context(), id); err != nil {
		writeJournalError(w, "failed to delete wifi debt", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	members, err := h.Store.Members(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load members", err)
		return
	}
	transactions, err := h.Store.Transactions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return
	}
	bills, err := h.Store.WifiBills(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load wifi bills", err)
		return
	}
	writeJSON(w, http.StatusOK, billing.Summarize(members, transactions, bills, h.currentMonth()))
}

func (h *Handler) GetArrears(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	members, err := h.Store.Members(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load members", err)
		return
	}
	transactions, err := h.Store.Transactions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return
	}
	debts, err := h.Store.WifiDebts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load wifi debts", err)
		return
	}

	arrears, err := billing.ComputeArrears(members, transactions, debts, h.currentMonth())
	if err != nil {
		writeJournalError(w, "failed to compute arrears", err)
		return
	}
	if arrears == nil {
		arrears = []billing.Arrears{}
	}
	writeJSON(w, http.StatusOK, arrears)
}

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.Store.Transactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return
	}

	timeline := billing.ReconstructLedger(transactions)

	// Optional year filter: balances stay computed over the full log,
	// matching how the dashboard narrows the timeline to one year.
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year", err)
			return
		}
		filtered := timeline[:0]
		for _, e := range timeline {
			if e.Date.Year() == year {
				filtered = append(filtered, e)
			}
		}
		timeline = filtered
	}
	if timeline == nil {
		timeline = []billing.LedgerEntry{}
	}

	writeJSON(w, http.StatusOK, LedgerResponse{
		Timeline: timeline,
		Groups:   billing.GroupLedger(timeline),
	})
}

func (h *Handler) GetRecap(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	typ := billing.TransactionType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = billing.TxKas
	}
	if !typ.Known() {
		writeError(w, http.StatusBadRequest, "unknown transaction type", nil)
		return
	}

	ctx := r.Context()
	members, err := h.Store.Members(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load members", err)
		return
	}
	transactions, err := h.Store.Transactions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, billing.Recap(members, transactions, year, typ))
}

func (h *Handler) PostQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx := r.Context()
	bills, err := h.Store.WifiBills(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load wifi bills", err)
		return
	}
	usage, err := h.Store.WifiUsage(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load wifi usage", err)
		return
	}

	kas := make([]billing.KasQuoteEntry, len(req.Kas))
	for i, e := range req.Kas {
		kas[i] = billing.KasQuoteEntry{Month: billing.Month(e.Month), Status: billing.Status(e.Status)}
	}
	wifiMonths := make([]billing.Month, len(req.WifiMonths))
	for i, m := range req.WifiMonths {
		wifiMonths[i] = billing.Month(m)
	}

	quote, err := billing.BuildQuote(req.MemberID, kas, wifiMonths, bills, usage)
	if err != nil {
		writeJournalError(w, "failed to build quote", err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// =============================================================================
// HELPERS
// =============================================================================

func queryID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Error = msg + ": " + err.Error()
	}
	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", msg, err)
	}
	writeJSON(w, status, resp)
}

// writeJournalError maps domain errors onto HTTP statuses: duplicates are
// conflicts, unknown rows are 404s, other client errors are 400s, and
// anything else is a server failure.
func writeJournalError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, journal.ErrDuplicatePayment):
		writeError(w, http.StatusConflict, msg, err)
	case errors.Is(err, journal.ErrMemberNotFound), errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, msg, err)
	case journal.IsClientError(err):
		writeError(w, http.StatusBadRequest, msg, err)
	default:
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}
