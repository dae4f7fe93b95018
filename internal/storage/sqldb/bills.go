package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
)

// CreateBill persists a new bill with its participants, menu items and payments.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if bill.CreatedAt == 0 {
		bill.CreatedAt = now
	}
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = bill.CreatedAt
	}
	if bill.Status == "" {
		bill.Status = models.BillStatusActive
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			`INSERT INTO bills (id, restaurant, total_amount, paid_amount, due_date, paid_by,
				split_mode, status, group_id, created_at, updated_at, settled_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			bill.ID, bill.Restaurant, bill.TotalAmount, bill.PaidAmount, bill.DueDate, bill.PaidBy,
			string(bill.SplitMode), string(bill.Status), nullString(bill.GroupID),
			bill.CreatedAt, bill.UpdatedAt, bill.SettledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}

		if err := s.insertBillLines(ctx, tx, bill); err != nil {
			return err
		}

		for participant, report := range bill.Payments.Reports {
			if err := s.upsertReport(ctx, tx, bill.ID, participant, report); err != nil {
				return err
			}
		}
		for participant, c := range bill.Payments.Confirmations {
			if err := s.upsertConfirmation(ctx, tx, bill.ID, participant, c); err != nil {
				return err
			}
		}
		for participant, req := range bill.Payments.Requests {
			if err := s.upsertRequest(ctx, tx, bill.ID, participant, req); err != nil {
				return err
			}
		}
		return nil
	})
}

// insertBillLines writes participants with their split and the menu items.
func (s *Store) insertBillLines(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for i, participant := range bill.Participants {
		_, err := s.exec(ctx, tx,
			"INSERT INTO bill_participants (bill_id, participant_id, position, split_amount) VALUES (?, ?, ?, ?)",
			bill.ID, participant, i, bill.ShareOf(participant),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range bill.MenuItems {
		item := &bill.MenuItems[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := s.exec(ctx, tx,
			"INSERT INTO menu_items (id, bill_id, position, name, price) VALUES (?, ?, ?, ?, ?)",
			item.ID, bill.ID, i, item.Name, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert menu item: %w", err)
		}

		for j, consumer := range item.Consumers {
			_, err = s.exec(ctx, tx,
				"INSERT INTO menu_item_consumers (item_id, participant_id, position) VALUES (?, ?, ?)",
				item.ID, consumer, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item consumer: %w", err)
			}
		}
	}
	return nil
}

// GetBill retrieves a bill by ID, including participants, menu items and payments.
func (s *Store) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var groupID sql.NullString
	var splitMode, status string
	err := s.queryRow(ctx, s.db,
		`SELECT id, restaurant, total_amount, paid_amount, due_date, paid_by, split_mode, status,
			group_id, created_at, updated_at, settled_at
		 FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &bill.Restaurant, &bill.TotalAmount, &bill.PaidAmount, &bill.DueDate, &bill.PaidBy,
		&splitMode, &status, &groupID, &bill.CreatedAt, &bill.UpdatedAt, &bill.SettledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.SplitMode = models.SplitMode(splitMode)
	bill.Status = models.BillStatus(status)
	bill.GroupID = groupID.String

	if err := s.loadParticipants(ctx, bill); err != nil {
		return nil, err
	}
	if err := s.loadMenuItems(ctx, bill); err != nil {
		return nil, err
	}
	if err := s.loadPayments(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

func (s *Store) loadParticipants(ctx context.Context, bill *models.Bill) error {
	rows, err := s.query(ctx, s.db,
		"SELECT participant_id, split_amount FROM bill_participants WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	bill.SplitAmounts = make(map[string]decimal.Decimal)
	for rows.Next() {
		var participant string
		var amount decimal.Decimal
		if err := rows.Scan(&participant, &amount); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		bill.Participants = append(bill.Participants, participant)
		bill.SplitAmounts[participant] = amount
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

func (s *Store) loadMenuItems(ctx context.Context, bill *models.Bill) error {
	itemRows, err := s.query(ctx, s.db,
		"SELECT id, name, price FROM menu_items WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get menu items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.MenuItem
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return fmt.Errorf("failed to scan menu item: %w", err)
		}
		bill.MenuItems = append(bill.MenuItems, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate menu items: %w", err)
	}
	itemRows.Close()

	// Consumers are fetched after the item cursor is closed so a single connection suffices.
	for i := range bill.MenuItems {
		consumers, err := s.selectStrings(ctx,
			"SELECT participant_id FROM menu_item_consumers WHERE item_id = ? ORDER BY position",
			bill.MenuItems[i].ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item consumers: %w", err)
		}
		bill.MenuItems[i].Consumers = consumers
	}
	return nil
}

// UpdateBill replaces a bill's details, participants, split and menu items.
// A zero UpdatedAt is stamped with the current time.
func (s *Store) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = time.Now().Unix()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			`UPDATE bills SET restaurant = ?, total_amount = ?, paid_amount = ?, due_date = ?,
				split_mode = ?, group_id = ?, updated_at = ?
			 WHERE id = ?`,
			bill.Restaurant, bill.TotalAmount, bill.PaidAmount, bill.DueDate,
			string(bill.SplitMode), nullString(bill.GroupID), bill.UpdatedAt, bill.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update bill: %w", err)
		}
		if err := requireAffected(res, "bill", bill.ID); err != nil {
			return err
		}

		deletes := []string{
			"DELETE FROM menu_item_consumers WHERE item_id IN (SELECT id FROM menu_items WHERE bill_id = ?)",
			"DELETE FROM menu_items WHERE bill_id = ?",
			"DELETE FROM bill_participants WHERE bill_id = ?",
		}
		for _, stmt := range deletes {
			if _, err := s.exec(ctx, tx, stmt, bill.ID); err != nil {
				return fmt.Errorf("failed to clear bill lines: %w", err)
			}
		}

		return s.insertBillLines(ctx, tx, bill)
	})
}

// ListBills retrieves the bills matching filter, newest first.
func (s *Store) ListBills(ctx context.Context, filter storage.BillFilter) ([]*models.Bill, error) {
	var where []string
	var args []any
	if filter.ParticipantID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM bill_participants p WHERE p.bill_id = b.id AND p.participant_id = ?)")
		args = append(args, filter.ParticipantID)
	}
	if filter.GroupID != "" {
		where = append(where, "b.group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.DueBefore != 0 {
		where = append(where, "b.due_date < ?")
		args = append(args, filter.DueBefore)
	}
	if filter.DueFrom != 0 {
		where = append(where, "b.due_date >= ?")
		args = append(args, filter.DueFrom)
	}

	query := "SELECT b.id FROM bills b"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.created_at DESC, b.id"

	return s.billsByQuery(ctx, query, args...)
}

// ListUnlinkedGroupBills retrieves bills whose group does not list them yet.
func (s *Store) ListUnlinkedGroupBills(ctx context.Context) ([]*models.Bill, error) {
	return s.billsByQuery(ctx,
		`SELECT b.id FROM bills b
		 WHERE b.group_id IS NOT NULL
		 AND NOT EXISTS (SELECT 1 FROM group_bills gb WHERE gb.bill_id = b.id AND gb.group_id = b.group_id)
		 ORDER BY b.created_at, b.id`,
	)
}

func (s *Store) billsByQuery(ctx context.Context, query string, args ...any) ([]*models.Bill, error) {
	ids, err := s.selectStrings(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// MarkSettled moves an active bill to settled. Settling an already settled bill is a no-op.
func (s *Store) MarkSettled(ctx context.Context, billID string, settledAt int64) error {
	res, err := s.exec(ctx, s.db,
		"UPDATE bills SET status = ?, settled_at = ?, updated_at = ? WHERE id = ? AND status = ?",
		string(models.BillStatusSettled), settledAt, settledAt, billID, string(models.BillStatusActive),
	)
	if err != nil {
		return fmt.Errorf("failed to settle bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	var status string
	err = s.queryRow(ctx, s.db, "SELECT status FROM bills WHERE id = ?", billID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check bill status: %w", err)
	}
	return nil
}
