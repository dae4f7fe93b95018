package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/billmate/internal/models"
)

// ParticipantPayment summarizes one debtor's position on a bill.
type ParticipantPayment struct {
	ParticipantID string
	Amount        decimal.Decimal
	PaidAmount    decimal.Decimal
	Remaining     decimal.Decimal
	Status        models.PaymentStatus
	Requested     bool
}

// PaymentStatuses lists every non-payer participant of bill in participant order.
func PaymentStatuses(bill *models.Bill) []ParticipantPayment {
	debtors := bill.Debtors()
	statuses := make([]ParticipantPayment, len(debtors))
	for i, p := range debtors {
		statuses[i] = ParticipantPayment{
			ParticipantID: p,
			Amount:        bill.ShareOf(p),
			PaidAmount:    bill.PaidByParticipant(p),
			Remaining:     bill.Remaining(p),
			Status:        bill.Payments.StatusOf(p),
			Requested:     bill.Payments.HasOpenRequest(p),
		}
	}
	return statuses
}

// checkDebtor makes sure participantID owes the payer on bill and is not yet confirmed.
func checkDebtor(bill *models.Bill, participantID string) error {
	if participantID == bill.PaidBy {
		return validationf("the payer of bill %s does not owe anything", bill.ID)
	}
	if !bill.IsParticipant(participantID) {
		return validationf("%s is not a participant of bill %s", participantID, bill.ID)
	}
	if bill.Payments.StatusOf(participantID) == models.PaymentStatusConfirmed {
		return fmt.Errorf("%s on bill %s: %w", participantID, bill.ID, ErrAlreadyConfirmed)
	}
	return nil
}

// checkCeiling rejects a payment larger than participantID's share. A report replaces any
// earlier one, so the share is what remains before it.
func checkCeiling(bill *models.Bill, participantID string, amount decimal.Decimal) error {
	if share := bill.ShareOf(participantID); amount.GreaterThan(share) {
		return validationf("payment of %s exceeds the %s share of %s on bill %s",
			amount.StringFixed(2), share.StringFixed(2), participantID, bill.ID)
	}
	return nil
}

// RequestPayment records the payer asking participantID to pay amount.
// A zero amount requests whatever the participant still owes.
func (l *Ledger) RequestPayment(ctx context.Context, actor models.Actor, billID, participantID string, amount decimal.Decimal) (bill *models.Bill, err error) {
	ctx, span := l.start(ctx, "request_payment",
		attribute.String("bill.id", billID),
		attribute.String("participant.id", participantID),
	)
	defer func() { l.finish(span, "request_payment", err) }()

	bill, err = l.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, bill); err != nil {
		return nil, err
	}
	if err := checkDebtor(bill, participantID); err != nil {
		return nil, err
	}

	if amount.IsNegative() {
		return nil, validationf("requested amount cannot be negative")
	}
	if amount.IsZero() {
		amount = bill.Remaining(participantID)
	}
	if !amount.IsPositive() {
		return nil, validationf("%s has nothing left to pay on bill %s", participantID, billID)
	}
	if remaining := bill.Remaining(participantID); amount.GreaterThan(remaining) {
		return nil, validationf("requested %s exceeds the %s %s still owes", amount.StringFixed(2), remaining.StringFixed(2), participantID)
	}

	req := models.PaymentRequest{
		Amount:      amount,
		RequestedBy: actor.ID,
		RequestedAt: l.now().Unix(),
		Status:      models.RequestStatusRequested,
	}
	if err := l.store.SaveRequest(ctx, billID, participantID, req); err != nil {
		return nil, fmt.Errorf("failed to save payment request: %w", err)
	}
	bill.Payments.Requests[participantID] = req
	bill.UpdatedAt = req.RequestedAt
	return bill, nil
}

// ReportPayment records the actor's own payment toward bill, pending the payer's confirmation.
// A zero amount reports the open request amount, or the remaining share when nothing was requested.
func (l *Ledger) ReportPayment(ctx context.Context, actor models.Actor, billID string, amount decimal.Decimal, details models.PaymentDetails) (bill *models.Bill, err error) {
	ctx, span := l.start(ctx, "report_payment",
		attribute.String("bill.id", billID),
		attribute.String("participant.id", actor.ID),
	)
	defer func() { l.finish(span, "report_payment", err) }()

	bill, err = l.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(actor, bill); err != nil {
		return nil, err
	}
	if err := checkDebtor(bill, actor.ID); err != nil {
		return nil, err
	}

	if amount.IsNegative() {
		return nil, validationf("payment amount cannot be negative")
	}
	if amount.IsZero() {
		if req, ok := bill.Payments.Requests[actor.ID]; ok && req.Status == models.RequestStatusRequested {
			amount = req.Amount
		} else {
			amount = bill.ShareOf(actor.ID)
		}
	}
	if !amount.IsPositive() {
		return nil, validationf("payment amount must be positive")
	}
	if err := checkCeiling(bill, actor.ID, amount); err != nil {
		return nil, err
	}

	report := models.PaymentReport{
		Amount:  amount,
		Status:  models.PaymentStatusPending,
		PaidAt:  l.now().Unix(),
		Details: details,
	}
	if err := l.store.SaveReport(ctx, billID, actor.ID, report); err != nil {
		return nil, fmt.Errorf("failed to save payment report: %w", err)
	}
	bill.Payments.Reports[actor.ID] = report
	bill.UpdatedAt = report.PaidAt
	return bill, nil
}

// ConfirmPayment records the payer confirming participantID's payment, completes any open
// request and settles the bill once every participant is confirmed.
// A zero amount confirms the reported amount, or the participant's share when nothing was reported.
//
// Confirmation and settlement are separate writes. When settling fails the confirmed bill is
// returned together with ErrPartialWrite.
func (l *Ledger) ConfirmPayment(ctx context.Context, actor models.Actor, billID, participantID string, amount decimal.Decimal, details models.PaymentDetails) (bill *models.Bill, err error) {
	ctx, span := l.start(ctx, "confirm_payment",
		attribute.String("bill.id", billID),
		attribute.String("participant.id", participantID),
	)
	defer func() { l.finish(span, "confirm_payment", err) }()

	bill, err = l.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, bill); err != nil {
		return nil, err
	}
	if err := checkDebtor(bill, participantID); err != nil {
		return nil, err
	}

	if amount.IsNegative() {
		return nil, validationf("confirmed amount cannot be negative")
	}
	now := l.now().Unix()
	paidAt := now
	if existing, ok := bill.Payments.Reports[participantID]; ok {
		paidAt = existing.PaidAt
		if amount.IsZero() {
			amount = existing.Amount
		}
		if details == (models.PaymentDetails{}) {
			details = existing.Details
		}
	}
	if amount.IsZero() {
		amount = bill.ShareOf(participantID)
	}
	if err := checkCeiling(bill, participantID, amount); err != nil {
		return nil, err
	}

	report := models.PaymentReport{
		Amount:  amount,
		Status:  models.PaymentStatusConfirmed,
		PaidAt:  paidAt,
		Details: details,
	}
	confirmation := models.PaymentConfirmation{
		OwnerID:     actor.ID,
		Amount:      amount,
		ConfirmedAt: now,
		Details:     details,
	}
	if err := l.store.ConfirmPayment(ctx, billID, participantID, report, confirmation); err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	bill.Payments.Reports[participantID] = report
	bill.Payments.Confirmations[participantID] = confirmation
	bill.UpdatedAt = now
	if req, ok := bill.Payments.Requests[participantID]; ok && req.Status == models.RequestStatusRequested {
		req.Status = models.RequestStatusCompleted
		req.CompletedAt = now
		bill.Payments.Requests[participantID] = req
	}

	if bill.Status == models.BillStatusActive && bill.AllConfirmed() {
		if err := l.settle(ctx, bill, now); err != nil {
			return bill, fmt.Errorf("%w: bill %s confirmed but not settled: %v", ErrPartialWrite, billID, err)
		}
	}
	return bill, nil
}

func (l *Ledger) settle(ctx context.Context, bill *models.Bill, at int64) error {
	if err := l.store.MarkSettled(ctx, bill.ID, at); err != nil {
		return err
	}
	bill.Status = models.BillStatusSettled
	bill.SettledAt = at
	bill.UpdatedAt = at
	l.metrics.IncBillsSettled()
	return nil
}
