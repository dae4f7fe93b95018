// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billmate/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	// (duplicate email, duplicate group code).
	ErrConflict = errors.New("conflict")
)

// BillFilter narrows ListBills. Zero-valued fields are ignored.
type BillFilter struct {
	// ParticipantID keeps bills whose participant list contains this user.
	ParticipantID string
	// GroupID keeps bills referencing this group.
	GroupID string
	// Status keeps bills in this status.
	Status models.BillStatus
	// DueBefore keeps bills with a due date strictly before this Unix timestamp.
	DueBefore int64
	// DueFrom keeps bills with a due date at or after this Unix timestamp.
	DueFrom int64
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail, GetUserByUsername and GetUserByID return ErrNotFound for unknown users.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpdatePaymentDetails replaces the bank details of a user.
	UpdatePaymentDetails(ctx context.Context, userID string, account models.PaymentAccount) error
}

// GroupStore persists groups, their members and their bill links.
type GroupStore interface {
	// CreateGroup inserts a group and its members.
	// Returns ErrConflict if the group code is already in use.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with members and linked bill IDs.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByCode looks up a group by its join code. The code must already be normalized.
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember returns every group userID belongs to, newest first.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMember adds userID to the group. Adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// LinkBillToGroup appends billID to the group's bill list. Linking twice is a no-op.
	LinkBillToGroup(ctx context.Context, groupID, billID string) error

	// DeleteGroup removes a group. Its bills survive with their group reference cleared.
	DeleteGroup(ctx context.Context, groupID string) error
}

// BillStore persists bills and their payment records.
type BillStore interface {
	// CreateBill persists a new bill including its split, menu items and payments.
	// The bill.ID field will be populated by the store if empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID. Returns ErrNotFound if it does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// UpdateBill replaces a bill's details, participants, split and menu items.
	// Payment records are left untouched.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// ListBills returns bills matching the filter, newest first.
	ListBills(ctx context.Context, filter BillFilter) ([]*models.Bill, error)

	// ListUnlinkedGroupBills returns bills that reference a group the group does not list.
	ListUnlinkedGroupBills(ctx context.Context) ([]*models.Bill, error)

	// SaveRequest writes the owner's payment request for a participant.
	SaveRequest(ctx context.Context, billID, participantID string, req models.PaymentRequest) error

	// SaveReport writes a participant's payment report.
	SaveReport(ctx context.Context, billID, participantID string, report models.PaymentReport) error

	// ConfirmPayment writes the confirmed report and the owner's confirmation, and
	// completes any open request, in one transaction.
	ConfirmPayment(ctx context.Context, billID, participantID string, report models.PaymentReport, confirmation models.PaymentConfirmation) error

	// MarkSettled moves an active bill to settled at the given time.
	MarkSettled(ctx context.Context, billID string, settledAt int64) error
}

// Store defines the full persistence interface.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	BillStore

	// Close releases any resources held by the store.
	Close() error
}
