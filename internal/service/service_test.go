package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/billmate/internal/auth"
	"github.com/mmynk/billmate/internal/directory"
	"github.com/mmynk/billmate/internal/groups"
	"github.com/mmynk/billmate/internal/ledger"
	"github.com/mmynk/billmate/internal/middleware"
	"github.com/mmynk/billmate/internal/storage/sqldb"
	"github.com/mmynk/billmate/pkg/api"
	"github.com/mmynk/billmate/pkg/api/apiconnect"
)

type testEnv struct {
	store  *sqldb.Store
	auth   apiconnect.AuthServiceClient
	bills  apiconnect.BillServiceClient
	groups apiconnect.GroupServiceClient
	debts  apiconnect.DebtServiceClient
}

type testUser struct {
	ID    string
	Token string
}

// unlinkableStore fails every group link so CreateBill ends in a partial write.
type unlinkableStore struct {
	ledger.Store
}

func (unlinkableStore) LinkBillToGroup(context.Context, string, string) error {
	return errors.New("link unavailable")
}

// setupTestServer starts all four services behind the real auth interceptor on a temp
// SQLite database. wrap, when set, decorates the store the ledger writes through.
func setupTestServer(t *testing.T, wrap func(ledger.Store) ledger.Store) *testEnv {
	t.Helper()

	store, err := sqldb.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var ledgerStore ledger.Store = store
	if wrap != nil {
		ledgerStore = wrap(store)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	dir := directory.New(store, time.Minute)
	l := ledger.New(ledgerStore)
	registry := groups.NewRegistry(store, groups.RandomCodes{})

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, dir), interceptors))
	mux.Handle(apiconnect.NewBillServiceHandler(NewBillService(l), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(registry, l, dir), interceptors))
	mux.Handle(apiconnect.NewDebtServiceHandler(NewDebtService(l, dir), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:  store,
		auth:   apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		bills:  apiconnect.NewBillServiceClient(http.DefaultClient, server.URL),
		groups: apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		debts:  apiconnect.NewDebtServiceClient(http.DefaultClient, server.URL),
	}
}

func (e *testEnv) register(t *testing.T, name string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       strings.ToLower(name) + "@example.com",
		DisplayName: name,
		Password:    "password123",
	}))
	require.NoError(t, err)
	return testUser{ID: resp.Msg.User.ID, Token: resp.Msg.Token}
}

func as[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

func requireCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "ALICE@example.com", DisplayName: "Other Alice", Password: "password123",
		}))
		requireCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "weak@example.com", DisplayName: "Weak", Password: "short",
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("login by username", func(t *testing.T) {
		resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Login: "alice", Password: "password123"}))
		require.NoError(t, err)
		require.Equal(t, alice.ID, resp.Msg.User.ID)
		require.NotEmpty(t, resp.Msg.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Login: "alice@example.com", Password: "nope-nope"}))
		requireCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		requireCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("payment details", func(t *testing.T) {
		resp, err := env.auth.UpdatePaymentDetails(ctx, as(alice, &api.UpdatePaymentDetailsRequest{
			PaymentDetails: api.PaymentAccount{BankName: "KBank", AccountNumber: "123-4-56789", AccountName: "Alice"},
		}))
		require.NoError(t, err)
		require.Equal(t, "KBank", resp.Msg.User.PaymentDetails.BankName)

		me, err := env.auth.GetCurrentUser(ctx, as(alice, &api.GetCurrentUserRequest{}))
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", me.Msg.User.Email)
		require.Equal(t, "123-4-56789", me.Msg.User.PaymentDetails.AccountNumber)

		users, err := env.auth.GetUsers(ctx, as(alice, &api.GetUsersRequest{UserIDs: []string{alice.ID, "ghost", alice.ID}}))
		require.NoError(t, err)
		require.Len(t, users.Msg.Users, 1)
		require.Equal(t, "Alice", users.Msg.Users[0].DisplayName)
		require.Empty(t, users.Msg.Users[0].Email)
		require.Equal(t, "KBank", users.Msg.Users[0].PaymentDetails.BankName)
	})
}

func TestCalculateSplit(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")

	resp, err := env.bills.CalculateSplit(ctx, as(alice, &api.CalculateSplitRequest{
		SplitMode:    "itemized",
		Participants: []string{"a", "b"},
		MenuItems: []*api.MenuItem{
			{Name: "Pad Thai", Price: "12,50", Consumers: []string{"a", "b"}},
			{Name: "Tea", Price: "3", Consumers: []string{"a"}},
		},
	}))
	require.NoError(t, err)
	requireAmount(t, "15.50", resp.Msg.TotalAmount)
	require.Len(t, resp.Msg.Shares, 2)
	require.Equal(t, "a", resp.Msg.Shares[0].ParticipantID)
	requireAmount(t, "9.25", resp.Msg.Shares[0].Amount)
	requireAmount(t, "6.25", resp.Msg.Shares[1].Amount)

	_, err = env.bills.CalculateSplit(ctx, as(alice, &api.CalculateSplitRequest{
		SplitMode:    "itemized",
		Participants: []string{"a"},
		MenuItems:    []*api.MenuItem{{Name: "Tea", Price: "free", Consumers: []string{"a"}}},
	}))
	requireCode(t, connect.CodeInvalidArgument, err)

	_, err = env.bills.CalculateSplit(ctx, as(alice, &api.CalculateSplitRequest{
		SplitMode:    "itemized",
		Participants: []string{"a", "b"},
		MenuItems:    []*api.MenuItem{{Name: "Tea", Price: "10", Consumers: []string{"b", "b"}}},
	}))
	requireCode(t, connect.CodeInvalidArgument, err)
}

func TestCreateBill_ItemPrices(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")

	created, err := env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant:   "Thip Samai",
		SplitMode:    "itemized",
		Participants: []string{bob.ID},
		MenuItems: []*api.MenuItem{
			{Name: "Pad Thai", Price: "3.335", Consumers: []string{alice.ID, bob.ID}},
			{Name: "Orange juice", Price: "1.005", Consumers: []string{bob.ID}},
		},
	}))
	require.NoError(t, err)
	requireAmount(t, "4.34", created.Msg.Bill.TotalAmount)

	got, err := env.bills.GetBill(ctx, as(bob, &api.GetBillRequest{BillID: created.Msg.Bill.ID}))
	require.NoError(t, err)
	require.Len(t, got.Msg.Bill.MenuItems, 2)
	require.Equal(t, "3.335", got.Msg.Bill.MenuItems[0].Price)
	require.Equal(t, "1.005", got.Msg.Bill.MenuItems[1].Price)

	_, err = env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant:   "Thip Samai",
		SplitMode:    "itemized",
		Participants: []string{bob.ID},
		MenuItems:    []*api.MenuItem{{Name: "Pad Thai", Price: "10", Consumers: []string{bob.ID, bob.ID}}},
	}))
	requireCode(t, connect.CodeInvalidArgument, err)

	list, err := env.bills.ListBills(ctx, as(bob, &api.ListBillsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Bills, 1)
}

func TestBillFlow(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")
	charlie := env.register(t, "Charlie")
	mallory := env.register(t, "Mallory")

	created, err := env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant:   "Jay Fai",
		TotalAmount:  decimal.RequireFromString("100"),
		Participants: []string{bob.ID, charlie.ID},
	}))
	require.NoError(t, err)
	require.Empty(t, created.Msg.Warning)
	bill := created.Msg.Bill
	require.Equal(t, []string{alice.ID, bob.ID, charlie.ID}, bill.Participants)
	require.Equal(t, "active", bill.Status)
	requireAmount(t, "33.34", bill.SplitAmounts[charlie.ID])
	require.Len(t, bill.Payments, 2)

	summary, err := env.debts.GetDebtSummary(ctx, as(bob, &api.GetDebtSummaryRequest{}))
	require.NoError(t, err)
	require.Len(t, summary.Msg.Debts, 1)
	require.Equal(t, "Alice", summary.Msg.Debts[0].CounterpartyName)
	require.Equal(t, "unpaid", summary.Msg.Debts[0].Status)
	requireAmount(t, "33.33", summary.Msg.TotalDebt)

	_, err = env.bills.GetBill(ctx, as(mallory, &api.GetBillRequest{BillID: bill.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.bills.ConfirmPayment(ctx, as(bob, &api.ConfirmPaymentRequest{BillID: bill.ID, ParticipantID: bob.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.bills.GetBill(ctx, as(alice, &api.GetBillRequest{BillID: "missing"}))
	requireCode(t, connect.CodeNotFound, err)

	requested, err := env.bills.RequestPayment(ctx, as(alice, &api.RequestPaymentRequest{BillID: bill.ID, ParticipantID: bob.ID}))
	require.NoError(t, err)
	require.Equal(t, "requested", requested.Msg.Bill.Payments[0].Status)

	reported, err := env.bills.ReportPayment(ctx, as(bob, &api.ReportPaymentRequest{
		BillID:  bill.ID,
		Details: &api.PaymentDetails{Method: "promptpay", TransactionID: "tx-1"},
	}))
	require.NoError(t, err)
	bobPayment := reported.Msg.Bill.Payments[0]
	require.Equal(t, "pending", bobPayment.Status)
	requireAmount(t, "33.33", bobPayment.PaidAmount)
	require.Equal(t, "promptpay", bobPayment.Details.Method)

	credits, err := env.debts.GetDebtSummary(ctx, as(alice, &api.GetDebtSummaryRequest{}))
	require.NoError(t, err)
	require.Len(t, credits.Msg.Credits, 2)
	requireAmount(t, "33.34", credits.Msg.TotalCredit)

	confirmed, err := env.bills.ConfirmPayment(ctx, as(alice, &api.ConfirmPaymentRequest{BillID: bill.ID, ParticipantID: bob.ID}))
	require.NoError(t, err)
	require.Equal(t, "confirmed", confirmed.Msg.Bill.Payments[0].Status)
	require.Equal(t, "active", confirmed.Msg.Bill.Status)

	settled, err := env.bills.ConfirmPayment(ctx, as(alice, &api.ConfirmPaymentRequest{BillID: bill.ID, ParticipantID: charlie.ID}))
	require.NoError(t, err)
	require.Equal(t, "settled", settled.Msg.Bill.Status)
	require.NotZero(t, settled.Msg.Bill.SettledAt)

	_, err = env.bills.ConfirmPayment(ctx, as(alice, &api.ConfirmPaymentRequest{BillID: bill.ID, ParticipantID: bob.ID}))
	requireCode(t, connect.CodeFailedPrecondition, err)

	summary, err = env.debts.GetDebtSummary(ctx, as(bob, &api.GetDebtSummaryRequest{}))
	require.NoError(t, err)
	require.Empty(t, summary.Msg.Debts)
	requireAmount(t, "0", summary.Msg.TotalDebt)
}

func TestCreateBill_Errors(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")

	tests := []struct {
		name string
		req  *api.CreateBillRequest
		code connect.Code
	}{
		{
			name: "empty restaurant",
			req:  &api.CreateBillRequest{TotalAmount: decimal.NewFromInt(10), Participants: []string{"bob"}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "not a participant",
			req: &api.CreateBillRequest{
				Restaurant: "Somtum", TotalAmount: decimal.NewFromInt(10),
				PaidBy: "bob", Participants: []string{"bob", "charlie"},
			},
			code: connect.CodePermissionDenied,
		},
		{
			name: "bad menu price",
			req: &api.CreateBillRequest{
				Restaurant: "Somtum", SplitMode: "itemized", Participants: []string{"bob"},
				MenuItems: []*api.MenuItem{{Name: "Som Tam", Price: "-4", Consumers: []string{"bob"}}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate custom amounts",
			req: &api.CreateBillRequest{
				Restaurant: "Somtum", SplitMode: "custom", TotalAmount: decimal.NewFromInt(10),
				Participants: []string{"bob"},
				CustomAmounts: []*api.Share{
					{ParticipantID: "bob", Amount: decimal.NewFromInt(5)},
					{ParticipantID: "bob", Amount: decimal.NewFromInt(5)},
				},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown group",
			req: &api.CreateBillRequest{
				Restaurant: "Somtum", TotalAmount: decimal.NewFromInt(10),
				Participants: []string{"bob"}, GroupID: "missing",
			},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.bills.CreateBill(ctx, as(alice, tt.req))
			requireCode(t, tt.code, err)
		})
	}
}

func TestUpdateBill(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")

	created, err := env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant: "Somtum", TotalAmount: decimal.NewFromInt(40), Participants: []string{bob.ID},
	}))
	require.NoError(t, err)

	name := "Somtum Der"
	mode := "custom"
	updated, err := env.bills.UpdateBill(ctx, as(alice, &api.UpdateBillRequest{
		BillID:        created.Msg.Bill.ID,
		Restaurant:    &name,
		SplitMode:     &mode,
		CustomAmounts: []*api.Share{{ParticipantID: alice.ID, Amount: decimal.NewFromInt(10)}, {ParticipantID: bob.ID, Amount: decimal.NewFromInt(30)}},
	}))
	require.NoError(t, err)
	require.Equal(t, "Somtum Der", updated.Msg.Bill.Restaurant)
	require.Equal(t, "custom", updated.Msg.Bill.SplitMode)
	requireAmount(t, "30", updated.Msg.Bill.SplitAmounts[bob.ID])

	_, err = env.bills.UpdateBill(ctx, as(bob, &api.UpdateBillRequest{BillID: created.Msg.Bill.ID, Restaurant: &name}))
	requireCode(t, connect.CodePermissionDenied, err)
}

func TestOverdueAndUpcoming(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")

	past, err := env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant: "Yesterday", TotalAmount: decimal.NewFromInt(20), Participants: []string{bob.ID},
		DueDate: time.Now().Add(-24 * time.Hour).Unix(),
	}))
	require.NoError(t, err)
	future, err := env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant: "Tomorrow", TotalAmount: decimal.NewFromInt(20), Participants: []string{bob.ID},
		DueDate: time.Now().Add(24 * time.Hour).Unix(),
	}))
	require.NoError(t, err)

	overdue, err := env.bills.GetOverdueBills(ctx, as(bob, &api.GetOverdueBillsRequest{}))
	require.NoError(t, err)
	require.Len(t, overdue.Msg.Bills, 1)
	require.Equal(t, past.Msg.Bill.ID, overdue.Msg.Bills[0].ID)

	upcoming, err := env.bills.GetUpcomingBills(ctx, as(bob, &api.GetUpcomingBillsRequest{}))
	require.NoError(t, err)
	require.Len(t, upcoming.Msg.Bills, 1)
	require.Equal(t, future.Msg.Bill.ID, upcoming.Msg.Bills[0].ID)

	list, err := env.bills.ListBills(ctx, as(bob, &api.ListBillsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Bills, 2)
}

func TestGroupFlow(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, nil)
	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")
	charlie := env.register(t, "Charlie")

	created, err := env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "Roommates"}))
	require.NoError(t, err)
	group := created.Msg.Group
	require.Len(t, group.GroupCode, groups.CodeLength)
	require.Equal(t, []string{alice.ID}, group.Members)

	_, err = env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "  "}))
	requireCode(t, connect.CodeInvalidArgument, err)

	joined, err := env.groups.JoinGroup(ctx, as(bob, &api.JoinGroupRequest{GroupCode: strings.ToLower(group.GroupCode)}))
	require.NoError(t, err)
	require.Equal(t, []string{alice.ID, bob.ID}, joined.Msg.Group.Members)

	_, err = env.groups.GetGroup(ctx, as(charlie, &api.GetGroupRequest{GroupID: group.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	bill, err := env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant: "Hot Pot", TotalAmount: decimal.NewFromInt(60),
		Participants: []string{bob.ID}, GroupID: group.ID,
	}))
	require.NoError(t, err)

	got, err := env.groups.GetGroup(ctx, as(bob, &api.GetGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Equal(t, []string{bill.Msg.Bill.ID}, got.Msg.Group.BillIDs)

	groupBills, err := env.bills.ListGroupBills(ctx, as(bob, &api.ListGroupBillsRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, groupBills.Msg.Bills, 1)

	balances, err := env.groups.GetGroupBalances(ctx, as(bob, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, balances.Msg.Debts, 1)
	require.Equal(t, bob.ID, balances.Msg.Debts[0].From)
	require.Equal(t, alice.ID, balances.Msg.Debts[0].To)
	requireAmount(t, "30", balances.Msg.Debts[0].Amount)
	for _, b := range balances.Msg.Balances {
		if b.MemberID == alice.ID {
			require.Equal(t, "Alice", b.DisplayName)
			requireAmount(t, "30", b.NetBalance)
		}
	}

	_, err = env.bills.ConfirmPayment(ctx, as(alice, &api.ConfirmPaymentRequest{BillID: bill.Msg.Bill.ID, ParticipantID: bob.ID}))
	require.NoError(t, err)
	balances, err = env.groups.GetGroupBalances(ctx, as(bob, &api.GetGroupBalancesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Empty(t, balances.Msg.Debts)

	list, err := env.groups.ListGroups(ctx, as(bob, &api.ListGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Groups, 1)

	_, err = env.groups.DeleteGroup(ctx, as(bob, &api.DeleteGroupRequest{GroupID: group.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.DeleteGroup(ctx, as(alice, &api.DeleteGroupRequest{GroupID: group.ID}))
	require.NoError(t, err)

	_, err = env.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: group.ID}))
	requireCode(t, connect.CodeNotFound, err)

	kept, err := env.bills.GetBill(ctx, as(alice, &api.GetBillRequest{BillID: bill.Msg.Bill.ID}))
	require.NoError(t, err)
	require.Empty(t, kept.Msg.Bill.GroupID)
}

func TestCreateBill_PartialWrite(t *testing.T) {
	ctx := context.Background()
	env := setupTestServer(t, func(s ledger.Store) ledger.Store { return unlinkableStore{s} })
	alice := env.register(t, "Alice")

	group, err := env.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "Solo"}))
	require.NoError(t, err)

	created, err := env.bills.CreateBill(ctx, as(alice, &api.CreateBillRequest{
		Restaurant: "Noodles", TotalAmount: decimal.NewFromInt(12),
		Participants: []string{"guest"}, GroupID: group.Msg.Group.ID,
	}))
	require.NoError(t, err)
	require.NotEmpty(t, created.Msg.Warning)
	require.NotEmpty(t, created.Msg.Bill.ID)

	result, err := ledger.New(env.store).Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Linked)

	got, err := env.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: group.Msg.Group.ID}))
	require.NoError(t, err)
	require.Equal(t, []string{created.Msg.Bill.ID}, got.Msg.Group.BillIDs)
}
