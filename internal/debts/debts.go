// Package debts projects bills into what a user owes and is owed.
// Everything here is computed on read and never persisted.
package debts

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billmate/internal/models"
)

// Status is the viewer-facing state of a debt or credit.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusUnpaid  Status = "unpaid"
)

// Entry is one bill's debt or credit between the viewer and a counterparty.
type Entry struct {
	BillID     string
	Restaurant string
	// CounterpartyID is the payer for debts and the participant for credits.
	CounterpartyID   string
	CounterpartyName string
	// Amount is the participant's share minus what they reported paying, never below zero.
	Amount    decimal.Decimal
	Status    Status
	Requested bool
	CreatedAt int64
	DueDate   int64
}

// Summary is the viewer's debts and credits with their outstanding totals.
type Summary struct {
	Debts       []Entry
	Credits     []Entry
	TotalDebt   decimal.Decimal
	TotalCredit decimal.Decimal
}

// statusOf maps a participant's payment state onto the debt view.
func statusOf(bill *models.Bill, participantID string) Status {
	switch bill.Payments.StatusOf(participantID) {
	case models.PaymentStatusConfirmed:
		return StatusPaid
	case models.PaymentStatusPending:
		return StatusPending
	default:
		return StatusUnpaid
	}
}

// entryFor builds the entry for participantID. A payment above the share, possible after
// the share shrank, leaves nothing outstanding rather than a negative amount.
func entryFor(bill *models.Bill, participantID, counterpartyID string) Entry {
	return Entry{
		BillID:         bill.ID,
		Restaurant:     bill.Restaurant,
		CounterpartyID: counterpartyID,
		Amount:         decimal.Max(bill.Remaining(participantID), decimal.Zero),
		Status:         statusOf(bill, participantID),
		Requested:      bill.Payments.HasOpenRequest(participantID),
		CreatedAt:      bill.CreatedAt,
		DueDate:        bill.DueDate,
	}
}

// include keeps entries with money outstanding or a payment awaiting confirmation.
func include(e Entry) bool {
	return e.Amount.IsPositive() || e.Status == StatusPending
}

// Summarize computes viewer's debts and credits over bills.
// Bills the viewer does not participate in are ignored. Totals exclude paid entries.
// Both lists are ordered newest bill first; bills created at the same time keep input order.
func Summarize(viewer string, bills []*models.Bill) Summary {
	summary := Summary{
		Debts:       []Entry{},
		Credits:     []Entry{},
		TotalDebt:   decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, bill := range bills {
		if !bill.IsParticipant(viewer) {
			continue
		}

		if bill.PaidBy != viewer {
			e := entryFor(bill, viewer, bill.PaidBy)
			if include(e) {
				summary.Debts = append(summary.Debts, e)
				if e.Status != StatusPaid {
					summary.TotalDebt = summary.TotalDebt.Add(e.Amount)
				}
			}
			continue
		}

		for _, participant := range bill.Debtors() {
			e := entryFor(bill, participant, participant)
			if include(e) {
				summary.Credits = append(summary.Credits, e)
				if e.Status != StatusPaid {
					summary.TotalCredit = summary.TotalCredit.Add(e.Amount)
				}
			}
		}
	}

	newestFirst := func(a, b Entry) int {
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		}
		return 0
	}
	slices.SortStableFunc(summary.Debts, newestFirst)
	slices.SortStableFunc(summary.Credits, newestFirst)

	return summary
}

// Counterparties returns the distinct counterparty IDs in s.
func (s Summary) Counterparties() []string {
	var ids []string
	for _, list := range [][]Entry{s.Debts, s.Credits} {
		for _, e := range list {
			if !slices.Contains(ids, e.CounterpartyID) {
				ids = append(ids, e.CounterpartyID)
			}
		}
	}
	return ids
}

// WithNames fills CounterpartyName from names, falling back to the ID.
func (s Summary) WithNames(names map[string]string) Summary {
	fill := func(list []Entry) {
		for i := range list {
			if name, ok := names[list[i].CounterpartyID]; ok && name != "" {
				list[i].CounterpartyName = name
			} else {
				list[i].CounterpartyName = list[i].CounterpartyID
			}
		}
	}
	fill(s.Debts)
	fill(s.Credits)
	return s
}
