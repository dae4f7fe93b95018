package sqldb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
)

// newTestSQLite returns a store on a fresh SQLite file removed after the test.
func newTestSQLite(t *testing.T) *Store {
	t.Helper()
	store, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, newTestSQLite(t))
}

func TestPostgresStore(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	store, err := NewPostgres(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	testStore(t, store)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: postgresDialect}
	require.Equal(t, "SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)",
		pg.rebind("SELECT a FROM t WHERE x = ? AND y IN (?, ?)"))

	lite := &Store{dialect: sqliteDialect}
	require.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// uid returns a unique ID so suites can share a PostgreSQL database between runs.
func uid(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

func newBill(owner string, participants ...string) *models.Bill {
	splits := make(map[string]decimal.Decimal)
	for _, p := range participants {
		splits[p] = dec("25.50")
	}
	return &models.Bill{
		Restaurant:   "Som Tam Nua",
		TotalAmount:  dec("25.50").Mul(decimal.NewFromInt(int64(len(participants)))),
		PaidAmount:   dec("25.50"),
		DueDate:      time.Now().Add(24 * time.Hour).Unix(),
		PaidBy:       owner,
		Participants: participants,
		SplitMode:    models.SplitModeEqual,
		SplitAmounts: splits,
		Payments:     models.NewPayments(),
	}
}

func testStore(t *testing.T, store *Store) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		email := strings.ToLower(uid("alice")) + "@example.com"
		user := models.NewUser(email, "Alice Liddell", "hash")
		require.NoError(t, store.CreateUser(ctx, user))

		dup := models.NewUser(email, "Other", "hash")
		require.ErrorIs(t, store.CreateUser(ctx, dup), storage.ErrConflict)

		got, err := store.GetUserByEmail(ctx, email)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.Equal(t, "aliceliddell", got.Username)

		got, err = store.GetUserByUsername(ctx, "aliceliddell")
		require.NoError(t, err)
		require.NotEmpty(t, got.ID)

		_, err = store.GetUserByID(ctx, uid("missing"))
		require.ErrorIs(t, err, storage.ErrNotFound)

		account := models.PaymentAccount{BankName: "KBank", AccountNumber: "123-4-56789-0", AccountName: "Alice"}
		require.NoError(t, store.UpdatePaymentDetails(ctx, user.ID, account))
		got, err = store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, account, got.PaymentDetails)

		require.ErrorIs(t, store.UpdatePaymentDetails(ctx, uid("missing"), account), storage.ErrNotFound)

		users, err := store.GetUsersByIDs(ctx, []string{user.ID, uid("missing")})
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "Alice Liddell", users[user.ID].DisplayName)
	})

	t.Run("bill round trip", func(t *testing.T) {
		a, b := uid("a"), uid("b")
		bill := newBill(a, a, b)
		bill.SplitMode = models.SplitModeItemized
		bill.MenuItems = []models.MenuItem{
			{Name: "Pad Thai", Price: dec("30.00"), Consumers: []string{b, a}},
			{Name: "Beer", Price: dec("21.00"), Consumers: []string{a}},
		}
		bill.Payments.Reports[a] = models.PaymentReport{Amount: dec("25.50"), Status: models.PaymentStatusConfirmed, PaidAt: 100}

		require.NoError(t, store.CreateBill(ctx, bill))
		require.NotEmpty(t, bill.ID)
		require.Equal(t, models.BillStatusActive, bill.Status)

		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		require.Equal(t, []string{a, b}, got.Participants)
		require.True(t, got.TotalAmount.Equal(dec("51")))
		require.True(t, got.ShareOf(b).Equal(dec("25.50")))
		require.Len(t, got.MenuItems, 2)
		require.Equal(t, "Pad Thai", got.MenuItems[0].Name)
		require.Equal(t, []string{b, a}, got.MenuItems[0].Consumers)
		require.True(t, got.MenuItems[1].Price.Equal(dec("21")))
		require.Equal(t, models.PaymentStatusConfirmed, got.Payments.StatusOf(a))
		require.Equal(t, models.PaymentStatusUnpaid, got.Payments.StatusOf(b))
		require.Empty(t, got.GroupID)

		_, err = store.GetBill(ctx, uid("missing"))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update bill keeps payments", func(t *testing.T) {
		a, b, c := uid("a"), uid("b"), uid("c")
		bill := newBill(a, a, b)
		require.NoError(t, store.CreateBill(ctx, bill))
		require.NoError(t, store.SaveReport(ctx, bill.ID, b, models.PaymentReport{
			Amount: dec("25.50"), Status: models.PaymentStatusPending, PaidAt: 200,
		}))

		bill.Restaurant = "Jay Fai"
		bill.Participants = []string{a, b, c}
		bill.SplitAmounts = map[string]decimal.Decimal{a: dec("10"), b: dec("10"), c: dec("10")}
		bill.TotalAmount = dec("30")
		require.NoError(t, store.UpdateBill(ctx, bill))

		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		require.Equal(t, "Jay Fai", got.Restaurant)
		require.Equal(t, []string{a, b, c}, got.Participants)
		require.True(t, got.ShareOf(c).Equal(dec("10")))
		require.Equal(t, models.PaymentStatusPending, got.Payments.StatusOf(b))

		missing := newBill(a, a)
		missing.ID = uid("missing")
		require.ErrorIs(t, store.UpdateBill(ctx, missing), storage.ErrNotFound)
	})

	t.Run("payments", func(t *testing.T) {
		a, b := uid("a"), uid("b")
		bill := newBill(a, a, b)
		require.NoError(t, store.CreateBill(ctx, bill))

		require.NoError(t, store.SaveRequest(ctx, bill.ID, b, models.PaymentRequest{
			Amount: dec("25.50"), RequestedBy: a, RequestedAt: 300, Status: models.RequestStatusRequested,
		}))
		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		require.Equal(t, models.PaymentStatusRequested, got.Payments.StatusOf(b))

		details := models.PaymentDetails{Method: "promptpay", TransactionID: "TX1", Note: "thanks"}
		require.NoError(t, store.ConfirmPayment(ctx, bill.ID, b,
			models.PaymentReport{Amount: dec("25.50"), Status: models.PaymentStatusConfirmed, PaidAt: 400, Details: details},
			models.PaymentConfirmation{OwnerID: a, Amount: dec("25.50"), ConfirmedAt: 400, Details: details},
		))

		got, err = store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		require.Equal(t, models.PaymentStatusConfirmed, got.Payments.StatusOf(b))
		require.Equal(t, models.RequestStatusCompleted, got.Payments.Requests[b].Status)
		require.Equal(t, int64(400), got.Payments.Requests[b].CompletedAt)
		require.Equal(t, details, got.Payments.Confirmations[b].Details)
		require.Equal(t, a, got.Payments.Confirmations[b].OwnerID)

		require.NoError(t, store.MarkSettled(ctx, bill.ID, 500))
		require.NoError(t, store.MarkSettled(ctx, bill.ID, 600))
		got, err = store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		require.Equal(t, models.BillStatusSettled, got.Status)
		require.Equal(t, int64(500), got.SettledAt)

		require.ErrorIs(t, store.MarkSettled(ctx, uid("missing"), 1), storage.ErrNotFound)
		require.ErrorIs(t, store.SaveReport(ctx, uid("missing"), b, models.PaymentReport{Amount: dec("1")}), storage.ErrNotFound)
	})

	t.Run("list bills with filters", func(t *testing.T) {
		a, b := uid("a"), uid("b")
		now := time.Now().Unix()

		past := newBill(a, a, b)
		past.DueDate = now - 3600
		past.CreatedAt = now - 20
		future := newBill(b, b, a)
		future.DueDate = now + 3600
		future.CreatedAt = now - 10
		unrelated := newBill(uid("x"), uid("x"))
		for _, bill := range []*models.Bill{past, future, unrelated} {
			require.NoError(t, store.CreateBill(ctx, bill))
		}

		bills, err := store.ListBills(ctx, storage.BillFilter{ParticipantID: a})
		require.NoError(t, err)
		require.Len(t, bills, 2)
		require.Equal(t, future.ID, bills[0].ID, "newest first")

		bills, err = store.ListBills(ctx, storage.BillFilter{ParticipantID: a, DueBefore: now})
		require.NoError(t, err)
		require.Len(t, bills, 1)
		require.Equal(t, past.ID, bills[0].ID)

		bills, err = store.ListBills(ctx, storage.BillFilter{ParticipantID: a, DueFrom: now, Status: models.BillStatusActive})
		require.NoError(t, err)
		require.Len(t, bills, 1)
		require.Equal(t, future.ID, bills[0].ID)
	})

	t.Run("groups", func(t *testing.T) {
		creator, joiner := uid("creator"), uid("joiner")
		code := strings.ToUpper(uuid.New().String()[:6])
		group := &models.Group{Name: "Roommates", CreatorID: creator, Members: []string{creator}, GroupCode: code}
		require.NoError(t, store.CreateGroup(ctx, group))
		require.NotEmpty(t, group.ID)

		clash := &models.Group{Name: "Other", CreatorID: joiner, Members: []string{joiner}, GroupCode: code}
		require.ErrorIs(t, store.CreateGroup(ctx, clash), storage.ErrConflict)

		require.NoError(t, store.AddGroupMember(ctx, group.ID, joiner))
		require.NoError(t, store.AddGroupMember(ctx, group.ID, joiner))
		require.ErrorIs(t, store.AddGroupMember(ctx, uid("missing"), joiner), storage.ErrNotFound)

		got, err := store.GetGroupByCode(ctx, code)
		require.NoError(t, err)
		require.Equal(t, []string{creator, joiner}, got.Members)

		bill := newBill(creator, creator, joiner)
		bill.GroupID = group.ID
		require.NoError(t, store.CreateBill(ctx, bill))

		unlinked, err := store.ListUnlinkedGroupBills(ctx)
		require.NoError(t, err)
		require.Contains(t, billIDs(unlinked), bill.ID)

		require.NoError(t, store.LinkBillToGroup(ctx, group.ID, bill.ID))
		require.NoError(t, store.LinkBillToGroup(ctx, group.ID, bill.ID))

		unlinked, err = store.ListUnlinkedGroupBills(ctx)
		require.NoError(t, err)
		require.NotContains(t, billIDs(unlinked), bill.ID)

		got, err = store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Equal(t, []string{bill.ID}, got.BillIDs)

		groups, err := store.ListGroupsByMember(ctx, joiner)
		require.NoError(t, err)
		require.Len(t, groups, 1)

		bills, err := store.ListBills(ctx, storage.BillFilter{GroupID: group.ID})
		require.NoError(t, err)
		require.Len(t, bills, 1)

		require.NoError(t, store.DeleteGroup(ctx, group.ID))
		_, err = store.GetGroup(ctx, group.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.ErrorIs(t, store.DeleteGroup(ctx, group.ID), storage.ErrNotFound)

		survivor, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		require.Empty(t, survivor.GroupID)

		groups, err = store.ListGroupsByMember(ctx, joiner)
		require.NoError(t, err)
		require.Empty(t, groups)
	})
}

func billIDs(bills []*models.Bill) []string {
	ids := make([]string, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	return ids
}
