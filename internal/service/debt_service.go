package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billmate/internal/debts"
	"github.com/mmynk/billmate/internal/directory"
	"github.com/mmynk/billmate/internal/ledger"
	"github.com/mmynk/billmate/pkg/api"
	"github.com/mmynk/billmate/pkg/api/apiconnect"
)

// DebtService implements the Connect DebtService
type DebtService struct {
	apiconnect.UnimplementedDebtServiceHandler
	ledger    *ledger.Ledger
	directory *directory.Directory
}

// NewDebtService creates a new DebtService.
func NewDebtService(l *ledger.Ledger, dir *directory.Directory) *DebtService {
	return &DebtService{ledger: l, directory: dir}
}

// GetDebtSummary returns what the caller owes and is owed across all their bills.
func (s *DebtService) GetDebtSummary(ctx context.Context, req *connect.Request[api.GetDebtSummaryRequest]) (*connect.Response[api.GetDebtSummaryResponse], error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := s.ledger.ListBills(ctx, actor)
	if err != nil {
		return nil, connectError("GetDebtSummary", err)
	}

	summary := debts.Summarize(actor.ID, bills)
	names, err := s.directory.Names(ctx, summary.Counterparties())
	if err != nil {
		slog.Warn("GetDebtSummary: failed to resolve names", "error", err)
	}
	summary = summary.WithNames(names)

	return connect.NewResponse(&api.GetDebtSummaryResponse{
		Debts:       toAPIEntries(summary.Debts),
		Credits:     toAPIEntries(summary.Credits),
		TotalDebt:   summary.TotalDebt,
		TotalCredit: summary.TotalCredit,
	}), nil
}

func toAPIEntries(entries []debts.Entry) []*api.DebtEntry {
	out := make([]*api.DebtEntry, len(entries))
	for i, e := range entries {
		out[i] = &api.DebtEntry{
			BillID:           e.BillID,
			Restaurant:       e.Restaurant,
			CounterpartyID:   e.CounterpartyID,
			CounterpartyName: e.CounterpartyName,
			Amount:           e.Amount,
			Status:           string(e.Status),
			Requested:        e.Requested,
			CreatedAt:        e.CreatedAt,
			DueDate:          e.DueDate,
		}
	}
	return out
}
