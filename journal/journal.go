/*
Package journal is the write boundary of the cash book.

PURPOSE:
  Every mutation of the five collections flows through here. The backing
  store only knows "replace this collection"; this package is what turns
  careless-caller conventions into enforced rules:

  - (memberId, type, month) is unique for kas/wifi payments: a second
    payment for the same triple is rejected, not silently appended
  - WiFi bills are upserted by month (month is unique across bills)
  - Usage declarations are upserted by (memberId, month)
  - Expense amounts are stored negative, all other amounts non-negative
  - memberName is snapshotted onto rows at write time so history survives
    member deletion (deleting a member never cascades to transactions)

IDENTIFIERS:
  Row ids are millisecond creation timestamps, kept strictly increasing
  within one process so two writes in the same millisecond still get
  distinct ids.

CONSISTENCY:
  Each mutation is one load -> modify -> save of a whole collection.
  There is no locking across concurrent requests; see the billing.Store
  contract for the accepted last-write-wins gap.
*/
package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrDuplicatePayment is returned when a kas/wifi payment already
	// exists for the same (member, type, month).
	ErrDuplicatePayment = errors.New("payment already recorded for this member, type, and month")

	// ErrMemberNotFound is returned when a write references a member id
	// that is not in the roster.
	ErrMemberNotFound = errors.New("member not found")

	// ErrNotFound is returned when a delete references a row that does not
	// exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidAmount is returned when an amount has the wrong sign for
	// its transaction type or a bill/debt amount is negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidName is returned when a member is created with an empty name.
	ErrInvalidName = errors.New("member name must not be empty")
)

// IsClientError reports whether err should decline the operation with a
// caller-side explanation instead of a server failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicatePayment) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidName) ||
		billing.IsClientError(err)
}

// =============================================================================
// JOURNAL
// =============================================================================

type Journal struct {
	store billing.Store

	mu     sync.Mutex
	lastID int64
	now    func() time.Time
}

func New(store billing.Store) *Journal {
	return &Journal{store: store, now: time.Now}
}

// WithClock overrides the journal's clock. Tests use this to make ids and
// posting dates deterministic.
func (j *Journal) WithClock(now func() time.Time) *Journal {
	j.now = now
	return j
}

// nextID returns a millisecond timestamp, bumped past the previous id when
// two writes land in the same millisecond.
func (j *Journal) nextID() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	id := j.now().UnixMilli()
	if id <= j.lastID {
		id = j.lastID + 1
	}
	j.lastID = id
	return id
}

// =============================================================================
// MEMBERS
// =============================================================================

func (j *Journal) AddMember(ctx context.Context, name string, status billing.Status) (billing.Member, error) {
	if name == "" {
		return billing.Member{}, ErrInvalidName
	}
	if !status.Known() {
		return billing.Member{}, fmt.Errorf("%w: %q", billing.ErrInvalidStatus, status)
	}

	members, err := j.store.Members(ctx)
	if err != nil {
		return billing.Member{}, err
	}
	m := billing.Member{ID: j.nextID(), Name: name, Status: status}
	members = append(members, m)
	return m, j.store.SaveMembers(ctx, members)
}

// UpdateMember replaces the name and/or status of an existing member.
// Empty name keeps the current name.
func (j *Journal) UpdateMember(ctx context.Context, id int64, name string, status billing.Status) (billing.Member, error) {
	if !status.Known() {
		return billing.Member{}, fmt.Errorf("%w: %q", billing.ErrInvalidStatus, status)
	}

	members, err := j.store.Members(ctx)
	if err != nil {
		return billing.Member{}, err
	}
	for i := range members {
		if members[i].ID != id {
			continue
		}
		if name != "" {
			members[i].Name = name
		}
		members[i].Status = status
		return members[i], j.store.SaveMembers(ctx, members)
	}
	return billing.Member{}, fmt.Errorf("%w: id %d", ErrMemberNotFound, id)
}

// DeleteMember removes the member from the roster. Historical transactions
// keep their memberName snapshot and are NOT touched.
func (j *Journal) DeleteMember(ctx context.Context, id int64) error {
	members, err := j.store.Members(ctx)
	if err != nil {
		return err
	}
	kept := members[:0]
	found := false
	for _, m := range members {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return fmt.Errorf("%w: id %d", ErrMemberNotFound, id)
	}
	return j.store.SaveMembers(ctx, kept)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// TransactionInput is what callers provide; the journal fills in identity,
// the posting date, the member-name snapshot, and the sign convention.
type TransactionInput struct {
	MemberID int64 // 0 for non-member rows (expenses)
	Type     billing.TransactionType
	Month    billing.Month
	Amount   int64 // magnitude; the journal applies the sign convention
	Status   string
	Notes    string
}

// AddTransaction validates and appends one payment or expense fact.
// Payments (kas/wifi) are unique per (member, type, month); a duplicate is
// rejected so the caller can reverse the existing row first.
func (j *Journal) AddTransaction(ctx context.Context, in TransactionInput) (billing.Transaction, error) {
	if !in.Type.Known() {
		return billing.Transaction{}, fmt.Errorf("%w: %q", billing.ErrUnknownTransactionType, in.Type)
	}
	if !in.Month.Valid() {
		return billing.Transaction{}, fmt.Errorf("%w: %q", billing.ErrInvalidMonth, in.Month)
	}
	if in.Amount < 0 {
		return billing.Transaction{}, fmt.Errorf("%w: magnitude must be non-negative, got %d", ErrInvalidAmount, in.Amount)
	}

	var memberName string
	if in.MemberID != 0 {
		members, err := j.store.Members(ctx)
		if err != nil {
			return billing.Transaction{}, err
		}
		found := false
		for _, m := range members {
			if m.ID == in.MemberID {
				memberName = m.Name
				found = true
				break
			}
		}
		if !found {
			return billing.Transaction{}, fmt.Errorf("%w: id %d", ErrMemberNotFound, in.MemberID)
		}
	}

	transactions, err := j.store.Transactions(ctx)
	if err != nil {
		return billing.Transaction{}, err
	}
	if in.Type != billing.TxExpense {
		if existing := billing.FindPayment(transactions, in.MemberID, in.Type, in.Month); existing != nil {
			return billing.Transaction{}, fmt.Errorf("%w: member %d, %s, %s",
				ErrDuplicatePayment, in.MemberID, in.Type, in.Month)
		}
	}

	amount := in.Amount
	if in.Type == billing.TxExpense {
		amount = -amount
	}

	tx := billing.Transaction{
		ID:         j.nextID(),
		MemberID:   in.MemberID,
		MemberName: memberName,
		Type:       in.Type,
		Month:      in.Month,
		Amount:     amount,
		Status:     in.Status,
		Date:       j.now().UTC(),
		Notes:      in.Notes,
	}
	transactions = append(transactions, tx)
	return tx, j.store.SaveTransactions(ctx, transactions)
}

// DeleteTransaction is the explicit admin reversal of a payment fact.
// Rows are never updated in place.
func (j *Journal) DeleteTransaction(ctx context.Context, id int64) error {
	transactions, err := j.store.Transactions(ctx)
	if err != nil {
		return err
	}
	kept := transactions[:0]
	found := false
	for _, tx := range transactions {
		if tx.ID == id {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	if !found {
		return fmt.Errorf("%w: transaction %d", ErrNotFound, id)
	}
	return j.store.SaveTransactions(ctx, kept)
}

// =============================================================================
// WIFI BILLS
// =============================================================================

// UpsertWifiBill records the total bill for a month, replacing any
// existing bill for that month. Month is unique across the collection.
func (j *Journal) UpsertWifiBill(ctx context.Context, month billing.Month, amount int64) (billing.WifiBill, error) {
	if !month.Valid() {
		return billing.WifiBill{}, fmt.Errorf("%w: %q", billing.ErrInvalidMonth, month)
	}
	if amount < 0 {
		return billing.WifiBill{}, fmt.Errorf("%w: bill must be non-negative, got %d", ErrInvalidAmount, amount)
	}

	bills, err := j.store.WifiBills(ctx)
	if err != nil {
		return billing.WifiBill{}, err
	}
	bill := billing.WifiBill{Month: month, Amount: amount}
	replaced := false
	for i := range bills {
		if bills[i].Month == month {
			bills[i] = bill
			replaced = true
			break
		}
	}
	if !replaced {
		bills = append(bills, bill)
	}
	sortBills(bills)
	return bill, j.store.SaveWifiBills(ctx, bills)
}

func (j *Journal) DeleteWifiBill(ctx context.Context, month billing.Month) error {
	bills, err := j.store.WifiBills(ctx)
	if err != nil {
		return err
	}
	kept := bills[:0]
	found := false
	for _, b := range bills {
		if b.Month == month {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return fmt.Errorf("%w: wifi bill %s", ErrNotFound, month)
	}
	return j.store.SaveWifiBills(ctx, kept)
}

// ReplaceWifiBills swaps the whole bill collection. Exposed for the admin
// bulk edit; each bill is still validated and months must be unique.
func (j *Journal) ReplaceWifiBills(ctx context.Context, bills []billing.WifiBill) error {
	seen := make(map[billing.Month]bool, len(bills))
	for _, b := range bills {
		if !b.Month.Valid() {
			return fmt.Errorf("%w: %q", billing.ErrInvalidMonth, b.Month)
		}
		if b.Amount < 0 {
			return fmt.Errorf("%w: bill must be non-negative, got %d", ErrInvalidAmount, b.Amount)
		}
		if seen[b.Month] {
			return fmt.Errorf("%w: duplicate wifi bill for %s", ErrInvalidAmount, b.Month)
		}
		seen[b.Month] = true
	}
	sorted := make([]billing.WifiBill, len(bills))
	copy(sorted, bills)
	sortBills(sorted)
	return j.store.SaveWifiBills(ctx, sorted)
}

// =============================================================================
// WIFI USAGE DECLARATIONS
// =============================================================================

// UpsertWifiUsage records a member's usage level for a month. A member has
// one declaration per month; resubmission replaces it, keeping the
// original row id.
func (j *Journal) UpsertWifiUsage(ctx context.Context, memberID int64, month billing.Month, level billing.UsageLevel) (billing.WifiUsage, error) {
	if !month.Valid() {
		return billing.WifiUsage{}, fmt.Errorf("%w: %q", billing.ErrInvalidMonth, month)
	}
	if !level.Known() {
		return billing.WifiUsage{}, fmt.Errorf("%w: %q", billing.ErrInvalidLevel, level)
	}

	members, err := j.store.Members(ctx)
	if err != nil {
		return billing.WifiUsage{}, err
	}
	var memberName string
	found := false
	for _, m := range members {
		if m.ID == memberID {
			memberName = m.Name
			found = true
			break
		}
	}
	if !found {
		return billing.WifiUsage{}, fmt.Errorf("%w: id %d", ErrMemberNotFound, memberID)
	}

	usage, err := j.store.WifiUsage(ctx)
	if err != nil {
		return billing.WifiUsage{}, err
	}
	entry := billing.WifiUsage{
		ID:         j.nextID(),
		MemberID:   memberID,
		MemberName: memberName,
		Month:      month,
		Level:      level,
		Date:       j.now().UTC(),
	}
	replaced := false
	for i := range usage {
		if usage[i].MemberID == memberID && usage[i].Month == month {
			entry.ID = usage[i].ID
			usage[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		usage = append(usage, entry)
	}
	return entry, j.store.SaveWifiUsage(ctx, usage)
}

func (j *Journal) DeleteWifiUsage(ctx context.Context, id int64) error {
	usage, err := j.store.WifiUsage(ctx)
	if err != nil {
		return err
	}
	kept := usage[:0]
	found := false
	for _, u := range usage {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return fmt.Errorf("%w: wifi usage %d", ErrNotFound, id)
	}
	return j.store.SaveWifiUsage(ctx, kept)
}

// =============================================================================
// WIFI DEBTS
// =============================================================================

// AddWifiDebt records a manual WiFi charge outside the allocator, e.g. for
// someone who already left. memberID 0 means "not a current member"; the
// name is then required since it is the only identity the row carries.
func (j *Journal) AddWifiDebt(ctx context.Context, memberID int64, memberName string, month billing.Month, amount int64) (billing.WifiDebt, error) {
	if !month.Valid() {
		return billing.WifiDebt{}, fmt.Errorf("%w: %q", billing.ErrInvalidMonth, month)
	}
	if amount < 0 {
		return billing.WifiDebt{}, fmt.Errorf("%w: debt must be non-negative, got %d", ErrInvalidAmount, amount)
	}

	if memberID != 0 {
		members, err := j.store.Members(ctx)
		if err != nil {
			return billing.WifiDebt{}, err
		}
		for _, m := range members {
			if m.ID == memberID {
				memberName = m.Name
				break
			}
		}
		// A debt may reference a departed member's original id; the name
		// passed by the caller stands in for the missing roster entry.
	}
	if memberName == "" {
		return billing.WifiDebt{}, ErrInvalidName
	}

	debts, err := j.store.WifiDebts(ctx)
	if err != nil {
		return billing.WifiDebt{}, err
	}
	debt := billing.WifiDebt{
		ID:         j.nextID(),
		MemberID:   memberID,
		MemberName: memberName,
		Month:      month,
		Amount:     amount,
	}
	debts = append(debts, debt)
	return debt, j.store.SaveWifiDebts(ctx, debts)
}

// DeleteWifiDebt settles a debt; removal is the only reconciliation a
// WifiDebt has.
func (j *Journal) DeleteWifiDebt(ctx context.Context, id int64) error {
	debts, err := j.store.WifiDebts(ctx)
	if err != nil {
		return err
	}
	kept := debts[:0]
	found := false
	for _, d := range debts {
		if d.ID == id {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return fmt.Errorf("%w: wifi debt %d", ErrNotFound, id)
	}
	return j.store.SaveWifiDebts(ctx, kept)
}

func sortBills(bills []billing.WifiBill) {
	sort.Slice(bills, func(i, k int) bool { return bills[i].Month < bills[k].Month })
}
