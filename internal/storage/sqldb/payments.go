package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/billmate/internal/models"
)

// SaveRequest writes the owner's payment request for a participant, replacing any earlier one.
// The bill's updated_at becomes the request time.
func (s *Store) SaveRequest(ctx context.Context, billID, participantID string, req models.PaymentRequest) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.touchBill(ctx, tx, billID, req.RequestedAt); err != nil {
			return err
		}
		return s.upsertRequest(ctx, tx, billID, participantID, req)
	})
}

// SaveReport writes a participant's payment report, replacing any earlier one.
// The bill's updated_at becomes the report's PaidAt.
func (s *Store) SaveReport(ctx context.Context, billID, participantID string, report models.PaymentReport) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.touchBill(ctx, tx, billID, report.PaidAt); err != nil {
			return err
		}
		return s.upsertReport(ctx, tx, billID, participantID, report)
	})
}

// ConfirmPayment records the confirmed report and the owner's confirmation and
// completes an open request in one transaction. The bill's updated_at becomes ConfirmedAt.
func (s *Store) ConfirmPayment(ctx context.Context, billID, participantID string, report models.PaymentReport, confirmation models.PaymentConfirmation) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.touchBill(ctx, tx, billID, confirmation.ConfirmedAt); err != nil {
			return err
		}
		if err := s.upsertReport(ctx, tx, billID, participantID, report); err != nil {
			return err
		}
		if err := s.upsertConfirmation(ctx, tx, billID, participantID, confirmation); err != nil {
			return err
		}
		_, err := s.exec(ctx, tx,
			`UPDATE payment_requests SET status = ?, completed_at = ?
			 WHERE bill_id = ? AND participant_id = ? AND status = ?`,
			string(models.RequestStatusCompleted), confirmation.ConfirmedAt,
			billID, participantID, string(models.RequestStatusRequested),
		)
		if err != nil {
			return fmt.Errorf("failed to complete payment request: %w", err)
		}
		return nil
	})
}

func (s *Store) touchBill(ctx context.Context, tx *sql.Tx, billID string, at int64) error {
	if at == 0 {
		at = time.Now().Unix()
	}
	res, err := s.exec(ctx, tx, "UPDATE bills SET updated_at = ? WHERE id = ?", at, billID)
	if err != nil {
		return fmt.Errorf("failed to touch bill: %w", err)
	}
	return requireAffected(res, "bill", billID)
}

func (s *Store) upsertReport(ctx context.Context, q queryer, billID, participantID string, r models.PaymentReport) error {
	_, err := s.exec(ctx, q,
		`INSERT INTO payment_reports (bill_id, participant_id, amount, status, paid_at, method, transaction_id, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (bill_id, participant_id) DO UPDATE SET
			amount = excluded.amount, status = excluded.status, paid_at = excluded.paid_at,
			method = excluded.method, transaction_id = excluded.transaction_id, note = excluded.note`,
		billID, participantID, r.Amount, string(r.Status), r.PaidAt,
		r.Details.Method, r.Details.TransactionID, r.Details.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment report: %w", err)
	}
	return nil
}

func (s *Store) upsertConfirmation(ctx context.Context, q queryer, billID, participantID string, c models.PaymentConfirmation) error {
	_, err := s.exec(ctx, q,
		`INSERT INTO payment_confirmations (bill_id, participant_id, owner_id, amount, confirmed_at, method, transaction_id, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (bill_id, participant_id) DO UPDATE SET
			owner_id = excluded.owner_id, amount = excluded.amount, confirmed_at = excluded.confirmed_at,
			method = excluded.method, transaction_id = excluded.transaction_id, note = excluded.note`,
		billID, participantID, c.OwnerID, c.Amount, c.ConfirmedAt,
		c.Details.Method, c.Details.TransactionID, c.Details.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment confirmation: %w", err)
	}
	return nil
}

func (s *Store) upsertRequest(ctx context.Context, q queryer, billID, participantID string, r models.PaymentRequest) error {
	_, err := s.exec(ctx, q,
		`INSERT INTO payment_requests (bill_id, participant_id, amount, requested_by, requested_at, status, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (bill_id, participant_id) DO UPDATE SET
			amount = excluded.amount, requested_by = excluded.requested_by, requested_at = excluded.requested_at,
			status = excluded.status, completed_at = excluded.completed_at`,
		billID, participantID, r.Amount, r.RequestedBy, r.RequestedAt, string(r.Status), r.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment request: %w", err)
	}
	return nil
}

// loadPayments fills all three payment maps of bill.
func (s *Store) loadPayments(ctx context.Context, bill *models.Bill) error {
	bill.Payments = models.NewPayments()

	rows, err := s.query(ctx, s.db,
		`SELECT participant_id, amount, status, paid_at, method, transaction_id, note
		 FROM payment_reports WHERE bill_id = ?`, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment reports: %w", err)
	}
	err = scanEach(rows, func(rows *sql.Rows) error {
		var participant, status string
		var r models.PaymentReport
		if err := rows.Scan(&participant, &r.Amount, &status, &r.PaidAt,
			&r.Details.Method, &r.Details.TransactionID, &r.Details.Note); err != nil {
			return err
		}
		r.Status = models.PaymentStatus(status)
		bill.Payments.Reports[participant] = r
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan payment reports: %w", err)
	}

	rows, err = s.query(ctx, s.db,
		`SELECT participant_id, owner_id, amount, confirmed_at, method, transaction_id, note
		 FROM payment_confirmations WHERE bill_id = ?`, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment confirmations: %w", err)
	}
	err = scanEach(rows, func(rows *sql.Rows) error {
		var participant string
		var c models.PaymentConfirmation
		if err := rows.Scan(&participant, &c.OwnerID, &c.Amount, &c.ConfirmedAt,
			&c.Details.Method, &c.Details.TransactionID, &c.Details.Note); err != nil {
			return err
		}
		bill.Payments.Confirmations[participant] = c
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan payment confirmations: %w", err)
	}

	rows, err = s.query(ctx, s.db,
		`SELECT participant_id, amount, requested_by, requested_at, status, completed_at
		 FROM payment_requests WHERE bill_id = ?`, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment requests: %w", err)
	}
	err = scanEach(rows, func(rows *sql.Rows) error {
		var participant, status string
		var r models.PaymentRequest
		if err := rows.Scan(&participant, &r.Amount, &r.RequestedBy, &r.RequestedAt, &status, &r.CompletedAt); err != nil {
			return err
		}
		r.Status = models.RequestStatus(status)
		bill.Payments.Requests[participant] = r
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan payment requests: %w", err)
	}

	return nil
}

// scanEach calls fn for every row and closes rows.
func scanEach(rows *sql.Rows, fn func(*sql.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
