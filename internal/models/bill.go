package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	// BillStatusActive means at least one non-owner participant is not confirmed yet.
	BillStatusActive BillStatus = "active"
	// BillStatusSettled means every non-owner participant's payment is confirmed.
	// Settled is terminal.
	BillStatusSettled BillStatus = "settled"
)

// SplitMode selects the algorithm used to compute a bill's split amounts.
type SplitMode string

const (
	SplitModeEqual    SplitMode = "equal"
	SplitModeCustom   SplitMode = "custom"
	SplitModeItemized SplitMode = "itemized"
)

// Valid reports whether m is a known split mode.
func (m SplitMode) Valid() bool {
	switch m {
	case SplitModeEqual, SplitModeCustom, SplitModeItemized:
		return true
	}
	return false
}

// Bill represents a restaurant bill fronted by PaidBy and split among Participants.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Restaurant is the display name of the place, never empty.
	Restaurant string

	// TotalAmount is the bill total. For itemized bills it is the sum of menu item prices.
	TotalAmount decimal.Decimal

	// PaidAmount is what the owner recorded as paid toward their own share at creation.
	PaidAmount decimal.Decimal

	// DueDate is the Unix timestamp by which payments are expected.
	DueDate int64

	// PaidBy is the participant who fronted the money (the creditor, or "owner").
	PaidBy string

	// Participants is the ordered list of participant IDs. It always contains PaidBy.
	// The order is significant: the last participant absorbs equal-split rounding.
	Participants []string

	// SplitMode records how SplitAmounts was computed.
	SplitMode SplitMode

	// SplitAmounts maps participant ID to the amount that participant owes.
	SplitAmounts map[string]decimal.Decimal

	// MenuItems are the itemized lines of the bill. Empty for equal and custom splits.
	MenuItems []MenuItem

	// Payments holds every payment record of the bill.
	Payments Payments

	// Status is active until every non-owner participant is confirmed.
	Status BillStatus

	// GroupID optionally references the group the bill belongs to.
	GroupID string

	CreatedAt int64
	UpdatedAt int64
	SettledAt int64
}

// MenuItem represents a single line item on an itemized bill.
// The item's price is divided evenly among its consumers.
type MenuItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the item's display name (e.g., "Pad Thai").
	Name string

	// Price is the item's full price.
	Price decimal.Decimal

	// Consumers are the participant IDs sharing this item.
	Consumers []string
}

// IsParticipant reports whether userID participates in the bill.
func (b *Bill) IsParticipant(userID string) bool {
	return slices.Contains(b.Participants, userID)
}

// IsOwner reports whether userID fronted the bill.
func (b *Bill) IsOwner(userID string) bool {
	return userID != "" && b.PaidBy == userID
}

// Debtors returns the participants other than the owner, in participant order.
func (b *Bill) Debtors() []string {
	debtors := make([]string, 0, len(b.Participants))
	for _, p := range b.Participants {
		if p != b.PaidBy {
			debtors = append(debtors, p)
		}
	}
	return debtors
}

// ShareOf returns the amount participantID owes, zero if absent.
func (b *Bill) ShareOf(participantID string) decimal.Decimal {
	if amount, ok := b.SplitAmounts[participantID]; ok {
		return amount
	}
	return decimal.Zero
}

// PaidByParticipant returns the amount participantID has reported as paid, confirmed or not.
func (b *Bill) PaidByParticipant(participantID string) decimal.Decimal {
	if report, ok := b.Payments.Reports[participantID]; ok {
		return report.Amount
	}
	return decimal.Zero
}

// Remaining returns what participantID still owes: share minus reported payment.
func (b *Bill) Remaining(participantID string) decimal.Decimal {
	return b.ShareOf(participantID).Sub(b.PaidByParticipant(participantID))
}

// AllConfirmed reports whether every non-owner participant has a confirmed report.
// A bill without debtors is trivially confirmed.
func (b *Bill) AllConfirmed() bool {
	for _, p := range b.Debtors() {
		if b.Payments.StatusOf(p) != PaymentStatusConfirmed {
			return false
		}
	}
	return true
}
