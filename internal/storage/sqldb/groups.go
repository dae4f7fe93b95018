package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billmate/internal/models"
	"github.com/mmynk/billmate/internal/storage"
)

// CreateGroup persists a new group and its initial members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			"INSERT INTO groups (id, name, creator_id, group_code, created_at) VALUES (?, ?, ?, ?, ?)",
			group.ID, group.Name, group.CreatorID, group.GroupCode, group.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("group code %s: %w", group.GroupCode, storage.ErrConflict)
			}
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for i, member := range group.Members {
			_, err = s.exec(ctx, tx,
				"INSERT INTO group_members (group_id, user_id, position, joined_at) VALUES (?, ?, ?, ?)",
				group.ID, member, i, group.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert group member: %w", err)
			}
		}
		return nil
	})
}

// GetGroup retrieves a group by ID, including members and linked bills.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.loadGroup(ctx, "id", groupID)
}

// GetGroupByCode retrieves a group by its join code.
func (s *Store) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	return s.loadGroup(ctx, "group_code", code)
}

func (s *Store) loadGroup(ctx context.Context, column, value string) (*models.Group, error) {
	group := &models.Group{}
	err := s.queryRow(ctx, s.db,
		"SELECT id, name, creator_id, group_code, created_at FROM groups WHERE "+column+" = ?",
		value,
	).Scan(&group.ID, &group.Name, &group.CreatorID, &group.GroupCode, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Members, err = s.selectStrings(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position", group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}

	group.BillIDs, err = s.selectStrings(ctx,
		"SELECT bill_id FROM group_bills WHERE group_id = ? ORDER BY position", group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group bills: %w", err)
	}

	return group, nil
}

// ListGroupsByMember retrieves every group the user belongs to, newest first.
func (s *Store) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	ids, err := s.selectStrings(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by member: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// AddGroupMember appends a member to the group. Existing members are left as they are.
func (s *Store) AddGroupMember(ctx context.Context, groupID, userID string) error {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return err
	}

	_, err := s.exec(ctx, s.db,
		`INSERT INTO group_members (group_id, user_id, position, joined_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM group_members WHERE group_id = ?), ?)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID, groupID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// LinkBillToGroup appends a bill to the group's bill list.
func (s *Store) LinkBillToGroup(ctx context.Context, groupID, billID string) error {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return err
	}

	_, err := s.exec(ctx, s.db,
		`INSERT INTO group_bills (group_id, bill_id, position, linked_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM group_bills WHERE group_id = ?), ?)
		 ON CONFLICT (group_id, bill_id) DO NOTHING`,
		groupID, billID, groupID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to link bill to group: %w", err)
	}
	return nil
}

// DeleteGroup removes a group with its memberships and bill links.
// Bills that referenced the group are kept with the reference cleared.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, "UPDATE bills SET group_id = NULL WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to detach bills: %w", err)
		}
		if _, err := s.exec(ctx, tx, "DELETE FROM group_bills WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to delete group bills: %w", err)
		}
		if _, err := s.exec(ctx, tx, "DELETE FROM group_members WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to delete group members: %w", err)
		}
		res, err := s.exec(ctx, tx, "DELETE FROM groups WHERE id = ?", groupID)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		return requireAffected(res, "group", groupID)
	})
}

func (s *Store) requireGroup(ctx context.Context, groupID string) error {
	var exists int
	err := s.queryRow(ctx, s.db, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return nil
}

// selectStrings runs a single-column query and collects the values.
func (s *Store) selectStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
