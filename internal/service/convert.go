package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billmate/internal/calculator"
	"github.com/mmynk/billmate/internal/directory"
	"github.com/mmynk/billmate/internal/ledger"
	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/pkg/api"
)

func toAPIBill(bill *models.Bill) *api.Bill {
	out := &api.Bill{
		ID:           bill.ID,
		Restaurant:   bill.Restaurant,
		TotalAmount:  bill.TotalAmount,
		PaidAmount:   bill.PaidAmount,
		DueDate:      bill.DueDate,
		PaidBy:       bill.PaidBy,
		Participants: bill.Participants,
		SplitMode:    string(bill.SplitMode),
		SplitAmounts: bill.SplitAmounts,
		Status:       string(bill.Status),
		GroupID:      bill.GroupID,
		CreatedAt:    bill.CreatedAt,
		UpdatedAt:    bill.UpdatedAt,
		SettledAt:    bill.SettledAt,
	}

	for _, item := range bill.MenuItems {
		out.MenuItems = append(out.MenuItems, &api.MenuItem{
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.Price.String(),
			Consumers: item.Consumers,
		})
	}

	for _, p := range ledger.PaymentStatuses(bill) {
		pp := &api.ParticipantPayment{
			ParticipantID: p.ParticipantID,
			Amount:        p.Amount,
			PaidAmount:    p.PaidAmount,
			Remaining:     p.Remaining,
			Status:        string(p.Status),
			Requested:     p.Requested,
		}
		if report, ok := bill.Payments.Reports[p.ParticipantID]; ok {
			pp.PaidAt = report.PaidAt
			pp.Details = toAPIDetails(report.Details)
		}
		if confirmation, ok := bill.Payments.Confirmations[p.ParticipantID]; ok {
			pp.ConfirmedAt = confirmation.ConfirmedAt
		}
		out.Payments = append(out.Payments, pp)
	}

	return out
}

func toAPIBills(bills []*models.Bill) []*api.Bill {
	out := make([]*api.Bill, len(bills))
	for i, bill := range bills {
		out[i] = toAPIBill(bill)
	}
	return out
}

func toAPIDetails(d models.PaymentDetails) *api.PaymentDetails {
	if d == (models.PaymentDetails{}) {
		return nil
	}
	return &api.PaymentDetails{Method: d.Method, TransactionID: d.TransactionID, Note: d.Note}
}

func fromAPIDetails(d *api.PaymentDetails) models.PaymentDetails {
	if d == nil {
		return models.PaymentDetails{}
	}
	return models.PaymentDetails{Method: d.Method, TransactionID: d.TransactionID, Note: d.Note}
}

// customAmounts converts shares to a map, rejecting duplicate participants.
func customAmounts(shares []*api.Share) (map[string]decimal.Decimal, error) {
	if shares == nil {
		return nil, nil
	}
	amounts := make(map[string]decimal.Decimal, len(shares))
	for _, s := range shares {
		if s == nil {
			continue
		}
		if _, dup := amounts[s.ParticipantID]; dup {
			return nil, fmt.Errorf("%w: duplicate custom amount for %s", ledger.ErrValidation, s.ParticipantID)
		}
		amounts[s.ParticipantID] = s.Amount
	}
	return amounts, nil
}

// menuItems parses user-entered menu items.
func menuItems(items []*api.MenuItem) ([]calculator.Item, error) {
	if items == nil {
		return nil, nil
	}
	raw := make([]calculator.RawItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		raw = append(raw, calculator.RawItem{Name: item.Name, Price: item.Price, Consumers: item.Consumers})
	}
	parsed, err := calculator.ParseMenuItems(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrValidation, err)
	}
	return parsed, nil
}

func toAPIGroup(group *models.Group) *api.Group {
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		CreatorID: group.CreatorID,
		Members:   group.Members,
		GroupCode: group.GroupCode,
		BillIDs:   group.BillIDs,
		CreatedAt: group.CreatedAt,
	}
}

func toAPIAccount(a models.PaymentAccount) *api.PaymentAccount {
	if a == (models.PaymentAccount{}) {
		return nil
	}
	return &api.PaymentAccount{BankName: a.BankName, AccountNumber: a.AccountNumber, AccountName: a.AccountName}
}

// toAPIUser is the caller's own account, email included.
func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		PaymentDetails: toAPIAccount(user.PaymentDetails),
		CreatedAt:      user.CreatedAt,
	}
}

// toAPIEntry is another user's public profile.
func toAPIEntry(e directory.Entry) *api.User {
	return &api.User{
		ID:             e.ID,
		Username:       e.Username,
		DisplayName:    e.DisplayName,
		PaymentDetails: toAPIAccount(e.PaymentDetails),
	}
}
