package ledger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/billmate/internal/calculator"
	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
)

// NewBill is the input for CreateBill.
type NewBill struct {
	Restaurant string
	// TotalAmount is required for equal and custom splits. Itemized bills derive it from MenuItems.
	TotalAmount decimal.Decimal
	// PaidAmount is what the payer covered of their own share. Zero means their full share.
	PaidAmount decimal.Decimal
	DueDate    int64
	// PaidBy defaults to the actor.
	PaidBy       string
	Participants []string
	// SplitMode defaults to equal.
	SplitMode     models.SplitMode
	CustomAmounts map[string]decimal.Decimal
	MenuItems     []calculator.Item
	GroupID       string
}

// BillUpdate lists the fields UpdateBill may change. Nil fields are left as they are.
type BillUpdate struct {
	Restaurant    *string
	TotalAmount   *decimal.Decimal
	DueDate       *int64
	Participants  []string
	SplitMode     *models.SplitMode
	CustomAmounts map[string]decimal.Decimal
	MenuItems     []calculator.Item
}

// CreateBill validates input, computes the split and persists an active bill.
// The payer is recorded as having paid PaidAmount, confirmed.
//
// When the bill belongs to a group the bill is linked to it in a second write.
// If that write fails the created bill is returned together with ErrPartialWrite.
func (l *Ledger) CreateBill(ctx context.Context, actor models.Actor, in NewBill) (bill *models.Bill, err error) {
	ctx, span := l.start(ctx, "create_bill", attribute.String("actor.id", actor.ID))
	defer func() { l.finish(span, "create_bill", err) }()

	restaurant := strings.TrimSpace(in.Restaurant)
	if restaurant == "" {
		return nil, validationf("restaurant name is required")
	}
	paidBy := strings.TrimSpace(in.PaidBy)
	if paidBy == "" {
		paidBy = actor.ID
	}
	if paidBy == "" {
		return nil, validationf("payer is required")
	}
	mode := in.SplitMode
	if mode == "" {
		mode = models.SplitModeEqual
	}
	if in.PaidAmount.IsNegative() {
		return nil, validationf("paid amount cannot be negative")
	}

	participants := normalizeParticipants(paidBy, in.Participants)
	if !slices.Contains(participants, actor.ID) {
		return nil, fmt.Errorf("%s cannot create a bill they are not part of: %w", actor.ID, ErrForbidden)
	}

	split, err := computeSplit(splitInput{
		mode:          mode,
		total:         in.TotalAmount,
		participants:  participants,
		customAmounts: in.CustomAmounts,
		items:         in.MenuItems,
	})
	if err != nil {
		return nil, err
	}

	if in.GroupID != "" {
		group, err := l.loadGroup(ctx, in.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.IsMember(actor.ID) {
			return nil, fmt.Errorf("%s is not a member of group %s: %w", actor.ID, in.GroupID, ErrForbidden)
		}
	}

	now := l.now().Unix()
	paidAmount := in.PaidAmount
	if paidAmount.IsZero() {
		paidAmount = split.amounts[paidBy]
	}

	bill = &models.Bill{
		Restaurant:   restaurant,
		TotalAmount:  split.total,
		PaidAmount:   paidAmount,
		DueDate:      in.DueDate,
		PaidBy:       paidBy,
		Participants: participants,
		SplitMode:    mode,
		SplitAmounts: split.amounts,
		MenuItems:    split.menuItems,
		Payments:     models.NewPayments(),
		Status:       models.BillStatusActive,
		GroupID:      in.GroupID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	bill.Payments.Reports[paidBy] = models.PaymentReport{
		Amount: paidAmount,
		Status: models.PaymentStatusConfirmed,
		PaidAt: now,
	}
	// Nobody else owes anything on a bill the payer shares with no one.
	if bill.AllConfirmed() {
		bill.Status = models.BillStatusSettled
		bill.SettledAt = now
	}

	if err := l.store.CreateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	span.SetAttributes(attribute.String("bill.id", bill.ID))

	if bill.GroupID != "" {
		if err := l.store.LinkBillToGroup(ctx, bill.GroupID, bill.ID); err != nil {
			return bill, fmt.Errorf("%w: bill %s not linked to group %s: %v", ErrPartialWrite, bill.ID, bill.GroupID, err)
		}
	}

	return bill, nil
}

// GetBill returns a bill the actor participates in.
func (l *Ledger) GetBill(ctx context.Context, actor models.Actor, billID string) (bill *models.Bill, err error) {
	ctx, span := l.start(ctx, "get_bill", attribute.String("bill.id", billID))
	defer func() { l.finish(span, "get_bill", err) }()

	bill, err = l.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(actor, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// ListBills returns every bill the actor participates in, newest first.
func (l *Ledger) ListBills(ctx context.Context, actor models.Actor) (bills []*models.Bill, err error) {
	ctx, span := l.start(ctx, "list_bills", attribute.String("actor.id", actor.ID))
	defer func() { l.finish(span, "list_bills", err) }()

	bills, err = l.store.ListBills(ctx, storage.BillFilter{ParticipantID: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// ListGroupBills returns the bills of a group the actor is a member of, newest first.
func (l *Ledger) ListGroupBills(ctx context.Context, actor models.Actor, groupID string) (bills []*models.Bill, err error) {
	ctx, span := l.start(ctx, "list_group_bills", attribute.String("group.id", groupID))
	defer func() { l.finish(span, "list_group_bills", err) }()

	group, err := l.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(actor.ID) {
		return nil, fmt.Errorf("%s is not a member of group %s: %w", actor.ID, groupID, ErrForbidden)
	}

	bills, err = l.store.ListBills(ctx, storage.BillFilter{GroupID: groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to list group bills: %w", err)
	}
	return bills, nil
}

// OverdueBills returns active bills the actor has not reported paying whose due date has passed.
func (l *Ledger) OverdueBills(ctx context.Context, actor models.Actor) (bills []*models.Bill, err error) {
	ctx, span := l.start(ctx, "overdue_bills", attribute.String("actor.id", actor.ID))
	defer func() { l.finish(span, "overdue_bills", err) }()

	return l.unpaidBills(ctx, actor, storage.BillFilter{DueBefore: l.now().Unix()})
}

// UpcomingBills returns active bills the actor has not reported paying that are due now or later.
func (l *Ledger) UpcomingBills(ctx context.Context, actor models.Actor) (bills []*models.Bill, err error) {
	ctx, span := l.start(ctx, "upcoming_bills", attribute.String("actor.id", actor.ID))
	defer func() { l.finish(span, "upcoming_bills", err) }()

	return l.unpaidBills(ctx, actor, storage.BillFilter{DueFrom: l.now().Unix()})
}

func (l *Ledger) unpaidBills(ctx context.Context, actor models.Actor, filter storage.BillFilter) ([]*models.Bill, error) {
	filter.ParticipantID = actor.ID
	filter.Status = models.BillStatusActive

	candidates, err := l.store.ListBills(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(candidates))
	for _, bill := range candidates {
		// Bills without a due date are neither overdue nor upcoming.
		if bill.DueDate == 0 {
			continue
		}
		if _, reported := bill.Payments.Reports[actor.ID]; reported {
			continue
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// UpdateBill lets the payer edit a bill and recomputes its split.
// Existing payments are kept as they are and the bill's status does not change.
func (l *Ledger) UpdateBill(ctx context.Context, actor models.Actor, billID string, upd BillUpdate) (bill *models.Bill, err error) {
	ctx, span := l.start(ctx, "update_bill", attribute.String("bill.id", billID))
	defer func() { l.finish(span, "update_bill", err) }()

	bill, err = l.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, bill); err != nil {
		return nil, err
	}

	if upd.Restaurant != nil {
		restaurant := strings.TrimSpace(*upd.Restaurant)
		if restaurant == "" {
			return nil, validationf("restaurant name is required")
		}
		bill.Restaurant = restaurant
	}
	if upd.DueDate != nil {
		bill.DueDate = *upd.DueDate
	}
	if upd.Participants != nil {
		bill.Participants = normalizeParticipants(bill.PaidBy, upd.Participants)
	}

	in := splitInput{
		mode:          bill.SplitMode,
		total:         bill.TotalAmount,
		participants:  bill.Participants,
		customAmounts: upd.CustomAmounts,
		items:         upd.MenuItems,
	}
	if upd.SplitMode != nil {
		in.mode = *upd.SplitMode
	}
	if upd.TotalAmount != nil {
		in.total = *upd.TotalAmount
	}
	if in.customAmounts == nil && in.mode == models.SplitModeCustom {
		in.customAmounts = keep(bill.SplitAmounts, bill.Participants)
	}
	if in.items == nil && in.mode == models.SplitModeItemized {
		in.items = itemsOf(bill.MenuItems)
	}

	split, err := computeSplit(in)
	if err != nil {
		return nil, err
	}
	bill.SplitMode = in.mode
	bill.TotalAmount = split.total
	bill.SplitAmounts = split.amounts
	bill.MenuItems = split.menuItems
	bill.UpdatedAt = l.now().Unix()

	if err := l.store.UpdateBill(ctx, bill); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("bill %s: %w", billID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	return bill, nil
}

// keep returns the entries of amounts whose key is in ids.
func keep(amounts map[string]decimal.Decimal, ids []string) map[string]decimal.Decimal {
	out := maps.Clone(amounts)
	maps.DeleteFunc(out, func(id string, _ decimal.Decimal) bool { return !slices.Contains(ids, id) })
	return out
}
