package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanekop/cashflow-kos-alhafidz/api"
	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
	"github.com/ryanekop/cashflow-kos-alhafidz/billing/store"
	"github.com/ryanekop/cashflow-kos-alhafidz/journal"
)

const (
	testPassword = "rahasia-kos"
	testSecret   = "test-secret"
)

// newServer wires a full stack on the in-memory store with a clock pinned
// to August 2025.
func newServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()
	s := store.NewMemory()
	at := time.Date(2025, time.August, 28, 12, 0, 0, 0, time.UTC)

	jnl := journal.New(s).WithClock(func() time.Time { return at })
	auth := api.NewAuthenticator(testPassword, testSecret, 12*time.Hour)
	h := api.NewHandler(s, jnl, auth)
	h.Now = func() time.Time { return at }

	srv := httptest.NewServer(api.NewRouter(h, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, s
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[api.LoginResponse](t, resp).Token
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin_WrongPassword(t *testing.T) {
	srv, _ := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{"password": "nope"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminMutationsRequireToken(t *testing.T) {
	// GIVEN: No Authorization header
	// THEN: Every admin mutation is declined before touching the journal

	srv, s := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/members", "", map[string]string{"name": "Budi"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	members, err := s.Members(context.Background())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestAdminMutationRejectsGarbageToken(t *testing.T) {
	srv, _ := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/members", "not-a-jwt", map[string]string{"name": "Budi"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReadsArePublic(t *testing.T) {
	srv, _ := newServer(t)

	for _, path := range []string{"/api/members", "/api/transactions", "/api/summary", "/api/arrears", "/api/ledger"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

// =============================================================================
// PAYMENT FLOW
// =============================================================================

func TestPaymentFlow(t *testing.T) {
	// GIVEN: An admin session
	// WHEN: Creating a member, recording their kas payment, and reading the
	//       summary
	// THEN: The member shows as paid for the current month

	srv, _ := newServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/members", token, map[string]any{
		"name": "Budi", "status": "full",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	member := decode[billing.Member](t, resp)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/transactions", token, map[string]any{
		"memberId": member.ID, "type": "kas", "month": "2025-08", "amount": 30000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[billing.Transaction](t, resp)
	assert.Equal(t, "Budi", tx.MemberName)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/summary", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[billing.Summary](t, resp)

	assert.Equal(t, billing.Month("2025-08"), summary.CurrentMonth)
	assert.Equal(t, int64(30000), summary.KasBalance)
	require.Len(t, summary.MemberStatus, 1)
	assert.True(t, summary.MemberStatus[0].HasPaidKas)
}

func TestDuplicatePaymentConflicts(t *testing.T) {
	srv, _ := newServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/members", token, map[string]any{"name": "Budi", "status": "full"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	member := decode[billing.Member](t, resp)

	payment := map[string]any{"memberId": member.ID, "type": "kas", "month": "2025-08", "amount": 30000}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/transactions", token, payment)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/transactions", token, payment)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateTransaction_BadMonth(t *testing.T) {
	srv, _ := newServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions", token, map[string]any{
		"type": "pengeluaran", "month": "2025-8", "amount": 100,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteTransaction_Unknown(t *testing.T) {
	srv, _ := newServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/transactions?id=12345", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

func TestArrearsEndpoint(t *testing.T) {
	// Seed the store directly: one member who paid June and nothing since.
	srv, s := newServer(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMembers(ctx, []billing.Member{{ID: 1, Name: "Budi", Status: billing.StatusFull}}))
	require.NoError(t, s.SaveTransactions(ctx, []billing.Transaction{{
		ID: 1, MemberID: 1, MemberName: "Budi", Type: billing.TxKas,
		Month: "2025-06", Amount: 25000,
		Date:  time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
	}}))

	resp, err := http.Get(srv.URL + "/api/arrears")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	arrears := decode[[]billing.Arrears](t, resp)

	require.Len(t, arrears, 1)
	assert.Equal(t, []billing.MonthCharge{
		{Month: "2025-07", Amount: 30000},
		{Month: "2025-08", Amount: 30000},
	}, arrears[0].UnpaidKas)
}

func TestLedgerEndpoint_YearFilterKeepsFullBalances(t *testing.T) {
	// GIVEN: Transactions across two years
	// WHEN: Filtering the ledger to 2025
	// THEN: Only 2025 rows return, but their balances still include 2024

	srv, s := newServer(t)
	require.NoError(t, s.SaveTransactions(context.Background(), []billing.Transaction{
		{ID: 1, MemberID: 1, Type: billing.TxKas, Month: "2024-12", Amount: 25000,
			Date: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, MemberID: 1, Type: billing.TxKas, Month: "2025-01", Amount: 25000,
			Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}))

	resp, err := http.Get(srv.URL + "/api/ledger?year=2025")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ledger := decode[api.LedgerResponse](t, resp)

	require.Len(t, ledger.Timeline, 1)
	assert.Equal(t, int64(50000), ledger.Timeline[0].Balance)
	require.Len(t, ledger.Groups, 1)
}

func TestQuoteEndpoint(t *testing.T) {
	srv, s := newServer(t)
	ctx := context.Background()

	require.NoError(t, s.SaveWifiBills(ctx, []billing.WifiBill{{Month: "2025-08", Amount: 305250}}))
	require.NoError(t, s.SaveWifiUsage(ctx, []billing.WifiUsage{
		{ID: 1, MemberID: 5, Month: "2025-08", Level: billing.LevelFull},
	}))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/quote", "", map[string]any{
		"memberId": 5,
		"kas": []map[string]string{
			{"month": "2025-07", "status": "full"},
		},
		"wifiMonths": []string{"2025-08"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quote := decode[billing.Quote](t, resp)

	assert.Equal(t, int64(30000), quote.TotalKas)
	assert.Equal(t, int64(122100), quote.TotalWifi)
	assert.Equal(t, int64(152100), quote.Total)
}

func TestRecapEndpoint_RequiresYear(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/recap")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/recap?year=2025")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// WIFI SELF-SERVICE
// =============================================================================

func TestWifiUsageSelfService(t *testing.T) {
	// Declaring usage needs no token; members do it themselves.
	srv, s := newServer(t)
	require.NoError(t, s.SaveMembers(context.Background(), []billing.Member{
		{ID: 1, Name: "Budi", Status: billing.StatusFull},
	}))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/wifi-usage", "", map[string]any{
		"memberId": 1, "month": "2025-08", "level": "full",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[billing.WifiUsage](t, resp)
	assert.Equal(t, "Budi", entry.MemberName)

	// Deleting a declaration is admin-only.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/wifi-usage?id=1", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWifiBillLifecycle(t *testing.T) {
	srv, _ := newServer(t)
	token := login(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/wifi-bills", token, map[string]any{
		"month": "2025-08", "amount": 305250,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bill := decode[billing.WifiBill](t, resp)
	assert.Equal(t, int64(305250), bill.Amount)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/wifi-bills/2025-08", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/wifi-bills/2025-08", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
