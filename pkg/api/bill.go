package api

import "github.com/shopspring/decimal"

// Bill is a restaurant bill with its split and per-participant payment state.
type Bill struct {
	ID           string                     `json:"id"`
	Restaurant   string                     `json:"restaurant"`
	TotalAmount  decimal.Decimal            `json:"totalAmount"`
	PaidAmount   decimal.Decimal            `json:"paidAmount"`
	DueDate      int64                      `json:"dueDate,omitempty"`
	PaidBy       string                     `json:"paidBy"`
	Participants []string                   `json:"participants"`
	SplitMode    string                     `json:"splitMode"`
	SplitAmounts map[string]decimal.Decimal `json:"splitAmounts"`
	MenuItems    []*MenuItem                `json:"menuItems,omitempty"`
	Payments     []*ParticipantPayment      `json:"payments"`
	Status       string                     `json:"status"`
	GroupID      string                     `json:"groupId,omitempty"`
	CreatedAt    int64                      `json:"createdAt"`
	UpdatedAt    int64                      `json:"updatedAt"`
	SettledAt    int64                      `json:"settledAt,omitempty"`
}

// MenuItem is one line of an itemized bill. On input Price may use a comma as the
// decimal separator ("12,50").
type MenuItem struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Consumers []string `json:"consumers"`
}

// ParticipantPayment is one non-payer participant's position on a bill.
type ParticipantPayment struct {
	ParticipantID string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
	Requested     bool            `json:"requested"`
	PaidAt        int64           `json:"paidAt,omitempty"`
	ConfirmedAt   int64           `json:"confirmedAt,omitempty"`
	Details       *PaymentDetails `json:"details,omitempty"`
}

// PaymentDetails describes how a payment was made.
type PaymentDetails struct {
	Method        string `json:"method,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Note          string `json:"note,omitempty"`
}

// Share is a participant's amount, used for custom splits and split previews.
type Share struct {
	ParticipantID string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
}

// CalculateSplitRequest previews a split without persisting anything.
type CalculateSplitRequest struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Participants  []string        `json:"participants"`
	SplitMode     string          `json:"splitMode"`
	CustomAmounts []*Share        `json:"customAmounts,omitempty"`
	MenuItems     []*MenuItem     `json:"menuItems,omitempty"`
}

type CalculateSplitResponse struct {
	Shares      []*Share        `json:"shares"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type CreateBillRequest struct {
	Restaurant    string          `json:"restaurant"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	DueDate       int64           `json:"dueDate,omitempty"`
	PaidBy        string          `json:"paidBy,omitempty"`
	Participants  []string        `json:"participants"`
	SplitMode     string          `json:"splitMode,omitempty"`
	CustomAmounts []*Share        `json:"customAmounts,omitempty"`
	MenuItems     []*MenuItem     `json:"menuItems,omitempty"`
	GroupID       string          `json:"groupId,omitempty"`
}

// CreateBillResponse carries Warning when the bill was stored but a follow-up write failed.
type CreateBillResponse struct {
	Bill    *Bill  `json:"bill"`
	Warning string `json:"warning,omitempty"`
}

type GetBillRequest struct {
	BillID string `json:"billId"`
}

type GetBillResponse struct {
	Bill *Bill `json:"bill"`
}

type ListBillsRequest struct{}

type ListBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

type ListGroupBillsRequest struct {
	GroupID string `json:"groupId"`
}

type ListGroupBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

type GetOverdueBillsRequest struct{}

type GetOverdueBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

type GetUpcomingBillsRequest struct{}

type GetUpcomingBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

// UpdateBillRequest changes only the fields that are set.
type UpdateBillRequest struct {
	BillID        string           `json:"billId"`
	Restaurant    *string          `json:"restaurant,omitempty"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	DueDate       *int64           `json:"dueDate,omitempty"`
	Participants  []string         `json:"participants,omitempty"`
	SplitMode     *string          `json:"splitMode,omitempty"`
	CustomAmounts []*Share         `json:"customAmounts,omitempty"`
	MenuItems     []*MenuItem      `json:"menuItems,omitempty"`
}

type UpdateBillResponse struct {
	Bill *Bill `json:"bill"`
}

// RequestPaymentRequest asks ParticipantID to pay. A zero Amount requests the remaining share.
type RequestPaymentRequest struct {
	BillID        string          `json:"billId"`
	ParticipantID string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
}

type RequestPaymentResponse struct {
	Bill *Bill `json:"bill"`
}

// ReportPaymentRequest records the caller's own payment.
type ReportPaymentRequest struct {
	BillID  string          `json:"billId"`
	Amount  decimal.Decimal `json:"amount"`
	Details *PaymentDetails `json:"details,omitempty"`
}

type ReportPaymentResponse struct {
	Bill *Bill `json:"bill"`
}

// ConfirmPaymentRequest is sent by the payer of a bill.
type ConfirmPaymentRequest struct {
	BillID        string          `json:"billId"`
	ParticipantID string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
	Details       *PaymentDetails `json:"details,omitempty"`
}

// ConfirmPaymentResponse carries Warning when the payment was confirmed but the bill was not settled.
type ConfirmPaymentResponse struct {
	Bill    *Bill  `json:"bill"`
	Warning string `json:"warning,omitempty"`
}
