package api

import "github.com/shopspring/decimal"

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creatorId"`
	Members   []string `json:"members"`
	GroupCode string   `json:"groupCode"`
	BillIDs   []string `json:"billIds"`
	CreatedAt int64    `json:"createdAt"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

// JoinGroupRequest joins by code. The code is case-insensitive.
type JoinGroupRequest struct {
	GroupCode string `json:"groupCode"`
}

type JoinGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

// MemberBalance is positive when the member is owed money.
type MemberBalance struct {
	MemberID    string          `json:"memberId"`
	DisplayName string          `json:"displayName,omitempty"`
	NetBalance  decimal.Decimal `json:"netBalance"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	TotalOwed   decimal.Decimal `json:"totalOwed"`
}

// Debt is a simplified transfer settling part of a group's balances.
type Debt struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type GetGroupBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
	Debts    []*Debt          `json:"debts"`
}
