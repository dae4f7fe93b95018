package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
)

// ReconcileResult counts the repairs made by one Reconcile sweep.
type ReconcileResult struct {
	Linked  int
	Settled int
}

// Reconcile repairs the second half of two-phase writes that did not complete:
// group bills missing from their group's bill list are linked, and active bills
// whose participants are all confirmed are settled. It keeps going past
// individual failures and returns them joined.
func (l *Ledger) Reconcile(ctx context.Context) (result ReconcileResult, err error) {
	ctx, span := l.start(ctx, "reconcile")
	defer func() { l.finish(span, "reconcile", err) }()

	var errs []error

	unlinked, err := l.store.ListUnlinkedGroupBills(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to list unlinked bills: %w", err))
	}
	for _, bill := range unlinked {
		if err := l.store.LinkBillToGroup(ctx, bill.GroupID, bill.ID); err != nil {
			errs = append(errs, fmt.Errorf("failed to link bill %s to group %s: %w", bill.ID, bill.GroupID, err))
			continue
		}
		result.Linked++
		slog.Info("Reconciled group link", "bill_id", bill.ID, "group_id", bill.GroupID)
	}

	active, err := l.store.ListBills(ctx, storage.BillFilter{Status: models.BillStatusActive})
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to list active bills: %w", err))
	}
	now := l.now().Unix()
	for _, bill := range active {
		if !bill.AllConfirmed() {
			continue
		}
		if err := l.settle(ctx, bill, now); err != nil {
			errs = append(errs, fmt.Errorf("failed to settle bill %s: %w", bill.ID, err))
			continue
		}
		result.Settled++
		slog.Info("Reconciled settlement", "bill_id", bill.ID)
	}

	l.metrics.AddReconcileRepairs("group_link", result.Linked)
	l.metrics.AddReconcileRepairs("settlement", result.Settled)
	return result, errors.Join(errs...)
}
