package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billmate/internal/ledger"
	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/pkg/api"
	"github.com/mmynk/billmate/pkg/api/apiconnect"
)

// BillService implements the Connect BillService
type BillService struct {
	apiconnect.UnimplementedBillServiceHandler
	ledger *ledger.Ledger
}

// NewBillService creates a new BillService over the given ledger.
func NewBillService(l *ledger.Ledger) *BillService {
	return &BillService{ledger: l}
}

// CalculateSplit previews a split without storing anything.
func (s *BillService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	custom, err := customAmounts(req.Msg.CustomAmounts)
	if err != nil {
		return nil, connectError("CalculateSplit", err)
	}
	items, err := menuItems(req.Msg.MenuItems)
	if err != nil {
		return nil, connectError("CalculateSplit", err)
	}

	split, err := ledger.Preview(ledger.NewBill{
		TotalAmount:   req.Msg.TotalAmount,
		Participants:  req.Msg.Participants,
		SplitMode:     models.SplitMode(req.Msg.SplitMode),
		CustomAmounts: custom,
		MenuItems:     items,
	})
	if err != nil {
		return nil, connectError("CalculateSplit", err)
	}

	shares := make([]*api.Share, len(split.Participants))
	for i, p := range split.Participants {
		slog.Debug("Person split", "person", p, "amount", split.Amounts[p])
		shares[i] = &api.Share{ParticipantID: p, Amount: split.Amounts[p]}
	}

	return connect.NewResponse(&api.CalculateSplitResponse{
		Shares:      shares,
		TotalAmount: split.TotalAmount,
	}), nil
}

// CreateBill creates a new bill and persists it to storage.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateBill request received",
		"restaurant", req.Msg.Restaurant,
		"participants_count", len(req.Msg.Participants),
		"split_mode", req.Msg.SplitMode,
		"group_id", req.Msg.GroupID,
	)

	custom, err := customAmounts(req.Msg.CustomAmounts)
	if err != nil {
		return nil, connectError("CreateBill", err)
	}
	items, err := menuItems(req.Msg.MenuItems)
	if err != nil {
		return nil, connectError("CreateBill", err)
	}

	bill, err := s.ledger.CreateBill(ctx, actor, ledger.NewBill{
		Restaurant:    req.Msg.Restaurant,
		TotalAmount:   req.Msg.TotalAmount,
		PaidAmount:    req.Msg.PaidAmount,
		DueDate:       req.Msg.DueDate,
		PaidBy:        req.Msg.PaidBy,
		Participants:  req.Msg.Participants,
		SplitMode:     models.SplitMode(req.Msg.SplitMode),
		CustomAmounts: custom,
		MenuItems:     items,
		GroupID:       req.Msg.GroupID,
	})
	warning, err := partialWarning("CreateBill", err)
	if err != nil {
		return nil, connectError("CreateBill", err)
	}

	slog.Info("Bill created", "bill_id", bill.ID, "status", bill.Status)

	return connect.NewResponse(&api.CreateBillResponse{
		Bill:    toAPIBill(bill),
		Warning: warning,
	}), nil
}

// GetBill retrieves a bill the caller participates in.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.ledger.GetBill(ctx, actor, req.Msg.BillID)
	if err != nil {
		return nil, connectError("GetBill", err)
	}

	return connect.NewResponse(&api.GetBillResponse{Bill: toAPIBill(bill)}), nil
}

// ListBills returns the caller's bills, newest first.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := s.ledger.ListBills(ctx, actor)
	if err != nil {
		return nil, connectError("ListBills", err)
	}

	slog.Info("ListBills successful", "count", len(bills))
	return connect.NewResponse(&api.ListBillsResponse{Bills: toAPIBills(bills)}), nil
}

// ListGroupBills returns every bill of a group the caller belongs to.
func (s *BillService) ListGroupBills(ctx context.Context, req *connect.Request[api.ListGroupBillsRequest]) (*connect.Response[api.ListGroupBillsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := s.ledger.ListGroupBills(ctx, actor, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("ListGroupBills", err)
	}

	return connect.NewResponse(&api.ListGroupBillsResponse{Bills: toAPIBills(bills)}), nil
}

// GetOverdueBills returns unpaid bills past their due date.
func (s *BillService) GetOverdueBills(ctx context.Context, req *connect.Request[api.GetOverdueBillsRequest]) (*connect.Response[api.GetOverdueBillsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := s.ledger.OverdueBills(ctx, actor)
	if err != nil {
		return nil, connectError("GetOverdueBills", err)
	}

	return connect.NewResponse(&api.GetOverdueBillsResponse{Bills: toAPIBills(bills)}), nil
}

// GetUpcomingBills returns unpaid bills that are not due yet.
func (s *BillService) GetUpcomingBills(ctx context.Context, req *connect.Request[api.GetUpcomingBillsRequest]) (*connect.Response[api.GetUpcomingBillsResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := s.ledger.UpcomingBills(ctx, actor)
	if err != nil {
		return nil, connectError("GetUpcomingBills", err)
	}

	return connect.NewResponse(&api.GetUpcomingBillsResponse{Bills: toAPIBills(bills)}), nil
}

// UpdateBill edits a bill. Only its payer may do so.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("UpdateBill request received", "bill_id", req.Msg.BillID)

	custom, err := customAmounts(req.Msg.CustomAmounts)
	if err != nil {
		return nil, connectError("UpdateBill", err)
	}
	items, err := menuItems(req.Msg.MenuItems)
	if err != nil {
		return nil, connectError("UpdateBill", err)
	}

	upd := ledger.BillUpdate{
		Restaurant:    req.Msg.Restaurant,
		TotalAmount:   req.Msg.TotalAmount,
		DueDate:       req.Msg.DueDate,
		Participants:  req.Msg.Participants,
		CustomAmounts: custom,
		MenuItems:     items,
	}
	if req.Msg.SplitMode != nil {
		mode := models.SplitMode(*req.Msg.SplitMode)
		upd.SplitMode = &mode
	}

	bill, err := s.ledger.UpdateBill(ctx, actor, req.Msg.BillID, upd)
	if err != nil {
		return nil, connectError("UpdateBill", err)
	}

	slog.Info("Bill updated", "bill_id", bill.ID)
	return connect.NewResponse(&api.UpdateBillResponse{Bill: toAPIBill(bill)}), nil
}

// RequestPayment lets the payer ask a participant to pay.
func (s *BillService) RequestPayment(ctx context.Context, req *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.ledger.RequestPayment(ctx, actor, req.Msg.BillID, req.Msg.ParticipantID, req.Msg.Amount)
	if err != nil {
		return nil, connectError("RequestPayment", err)
	}

	slog.Info("Payment requested", "bill_id", bill.ID, "participant_id", req.Msg.ParticipantID)
	return connect.NewResponse(&api.RequestPaymentResponse{Bill: toAPIBill(bill)}), nil
}

// ReportPayment records the caller's payment, pending the payer's confirmation.
func (s *BillService) ReportPayment(ctx context.Context, req *connect.Request[api.ReportPaymentRequest]) (*connect.Response[api.ReportPaymentResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.ledger.ReportPayment(ctx, actor, req.Msg.BillID, req.Msg.Amount, fromAPIDetails(req.Msg.Details))
	if err != nil {
		return nil, connectError("ReportPayment", err)
	}

	slog.Info("Payment reported", "bill_id", bill.ID, "participant_id", actor.ID)
	return connect.NewResponse(&api.ReportPaymentResponse{Bill: toAPIBill(bill)}), nil
}

// ConfirmPayment lets the payer confirm a participant's payment. The bill settles once
// every participant is confirmed.
func (s *BillService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.ledger.ConfirmPayment(ctx, actor, req.Msg.BillID, req.Msg.ParticipantID, req.Msg.Amount, fromAPIDetails(req.Msg.Details))
	warning, err := partialWarning("ConfirmPayment", err)
	if err != nil {
		return nil, connectError("ConfirmPayment", err)
	}

	slog.Info("Payment confirmed", "bill_id", bill.ID, "participant_id", req.Msg.ParticipantID, "status", bill.Status)
	return connect.NewResponse(&api.ConfirmPaymentResponse{
		Bill:    toAPIBill(bill),
		Warning: warning,
	}), nil
}
