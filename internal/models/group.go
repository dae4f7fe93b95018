package models

import "slices"

// Group is a set of members who share bills. Members join with GroupCode.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Work Lunch").
	Name string

	// CreatorID is the user who created the group. Only the creator may delete it.
	CreatorID string

	// Members is the list of member user IDs. The creator is always a member.
	Members []string

	// GroupCode is the short join token shared with new members. Unique across groups.
	GroupCode string

	// BillIDs lists the bills linked to this group, oldest first.
	BillIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}
