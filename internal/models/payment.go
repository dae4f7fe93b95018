package models

import "github.com/shopspring/decimal"

// PaymentStatus is the state of one participant's payment on one bill.
//
//	unpaid --(owner requests)--> requested --(participant reports)--> pending --(owner confirms)--> confirmed
//
// A participant may report from unpaid directly. Confirmed is terminal.
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusRequested PaymentStatus = "requested"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
)

// RequestStatus is the state of an owner's payment request.
type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "requested"
	RequestStatusCompleted RequestStatus = "completed"
)

// PaymentDetails describes how a payment was made.
type PaymentDetails struct {
	Method        string
	TransactionID string
	Note          string
}

// PaymentReport is a participant's self-reported payment.
// Status is pending until the owner confirms it.
type PaymentReport struct {
	Amount  decimal.Decimal
	Status  PaymentStatus
	PaidAt  int64
	Details PaymentDetails
}

// PaymentConfirmation is the owner's confirmation of a participant's payment.
type PaymentConfirmation struct {
	OwnerID     string
	Amount      decimal.Decimal
	ConfirmedAt int64
	Details     PaymentDetails
}

// PaymentRequest is the owner asking a participant to pay.
type PaymentRequest struct {
	Amount      decimal.Decimal
	RequestedBy string
	RequestedAt int64
	Status      RequestStatus
	CompletedAt int64
}

// Payments holds a bill's payment records, each map keyed by participant ID.
type Payments struct {
	Reports       map[string]PaymentReport
	Confirmations map[string]PaymentConfirmation
	Requests      map[string]PaymentRequest
}

// NewPayments returns Payments with all maps allocated.
func NewPayments() Payments {
	return Payments{
		Reports:       make(map[string]PaymentReport),
		Confirmations: make(map[string]PaymentConfirmation),
		Requests:      make(map[string]PaymentRequest),
	}
}

// StatusOf derives participantID's payment status: a confirmed report wins, then any
// report (pending), then an open request, otherwise unpaid.
func (p Payments) StatusOf(participantID string) PaymentStatus {
	if report, ok := p.Reports[participantID]; ok {
		if report.Status == PaymentStatusConfirmed {
			return PaymentStatusConfirmed
		}
		return PaymentStatusPending
	}
	if req, ok := p.Requests[participantID]; ok && req.Status == RequestStatusRequested {
		return PaymentStatusRequested
	}
	return PaymentStatusUnpaid
}

// HasOpenRequest reports whether the owner is still waiting on participantID.
func (p Payments) HasOpenRequest(participantID string) bool {
	req, ok := p.Requests[participantID]
	return ok && req.Status == RequestStatusRequested
}
