package api

import "github.com/shopspring/decimal"

// DebtEntry is one bill's debt or credit between the caller and a counterparty.
type DebtEntry struct {
	BillID           string          `json:"billId"`
	Restaurant       string          `json:"restaurant"`
	CounterpartyID   string          `json:"counterpartyId"`
	CounterpartyName string          `json:"counterpartyName,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	Requested        bool            `json:"requested"`
	CreatedAt        int64           `json:"createdAt"`
	DueDate          int64           `json:"dueDate,omitempty"`
}

type GetDebtSummaryRequest struct{}

type GetDebtSummaryResponse struct {
	Debts       []*DebtEntry    `json:"debts"`
	Credits     []*DebtEntry    `json:"credits"`
	TotalDebt   decimal.Decimal `json:"totalDebt"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}
