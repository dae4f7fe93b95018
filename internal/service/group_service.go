package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billmate/internal/calculator"
	"github.com/mmynk/billmate/internal/directory"
	"github.com/mmynk/billmate/internal/groups"
	"github.com/mmynk/billmate/internal/ledger"
	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/pkg/api"
	"github.com/mmynk/billmate/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	registry  *groups.Registry
	ledger    *ledger.Ledger
	directory *directory.Directory
}

// NewGroupService creates a new GroupService.
func NewGroupService(registry *groups.Registry, l *ledger.Ledger, dir *directory.Directory) *GroupService {
	return &GroupService{registry: registry, ledger: l, directory: dir}
}

// CreateGroup creates a new group with the caller as creator and first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	group, err := s.registry.Create(ctx, actor, req.Msg.Name)
	if err != nil {
		return nil, connectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID, "group_code", group.GroupCode)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// JoinGroup adds the caller to the group with the given code.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.registry.JoinByCode(ctx, actor, req.Msg.GroupCode)
	if err != nil {
		return nil, connectError("JoinGroup", err)
	}

	slog.Info("Joined group", "group_id", group.ID, "user_id", actor.ID)
	return connect.NewResponse(&api.JoinGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.registry.Get(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("GetGroup", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.registry.ListForUser(ctx, actor)
	if err != nil {
		return nil, connectError("ListGroups", err)
	}

	out := make([]*api.Group, len(list))
	for i, group := range list {
		out[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(list))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// DeleteGroup removes a group by ID. Only its creator may delete it.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.registry.Delete(ctx, actor, req.Msg.GroupID); err != nil {
		return nil, connectError("DeleteGroup", err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances aggregates every bill of the group into net balances and the
// smallest set of transfers that settles them.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := s.ledger.ListGroupBills(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("GetGroupBalances", err)
	}

	balances, edges := calculator.CalculateGroupBalances(balanceInputs(bills))

	ids := make([]string, len(balances))
	for i, b := range balances {
		ids[i] = b.MemberID
	}
	names, err := s.directory.Names(ctx, ids)
	if err != nil {
		// Names are cosmetic; balances are still correct without them.
		slog.Warn("GetGroupBalances: failed to resolve names", "group_id", req.Msg.GroupID, "error", err)
	}

	resp := &api.GetGroupBalancesResponse{
		Balances: make([]*api.MemberBalance, len(balances)),
		Debts:    make([]*api.Debt, len(edges)),
	}
	for i, b := range balances {
		resp.Balances[i] = &api.MemberBalance{
			MemberID:    b.MemberID,
			DisplayName: names[b.MemberID],
			NetBalance:  b.NetBalance.Round(2),
			TotalPaid:   b.TotalPaid.Round(2),
			TotalOwed:   b.TotalOwed.Round(2),
		}
	}
	for i, e := range edges {
		resp.Debts[i] = &api.Debt{From: e.From, To: e.To, Amount: e.Amount}
	}

	slog.Info("GetGroupBalances successful", "group_id", req.Msg.GroupID, "bills", len(bills), "debts", len(edges))
	return connect.NewResponse(resp), nil
}

// balanceInputs reduces bills to what the balance calculation needs.
func balanceInputs(bills []*models.Bill) []calculator.BillForBalance {
	out := make([]calculator.BillForBalance, 0, len(bills))
	for _, bill := range bills {
		confirmed := make(map[string]decimal.Decimal, len(bill.Payments.Confirmations))
		for participant, c := range bill.Payments.Confirmations {
			confirmed[participant] = c.Amount
		}
		out = append(out, calculator.BillForBalance{
			PayerID:   bill.PaidBy,
			Splits:    bill.SplitAmounts,
			Confirmed: confirmed,
		})
	}
	return out
}
