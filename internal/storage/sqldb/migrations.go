package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// migrations contains the SQL statements to set up the database schema.
// Column types are written as {{money}} and {{ts}} and resolved per dialect.
// IMPORTANT: groups must be created BEFORE bills due to the foreign key constraint.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		bank_name TEXT NOT NULL DEFAULT '',
		account_number TEXT NOT NULL DEFAULT '',
		account_name TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		group_code TEXT NOT NULL UNIQUE,
		created_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		joined_at {{ts}} NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		restaurant TEXT NOT NULL,
		total_amount {{money}} NOT NULL,
		paid_amount {{money}} NOT NULL,
		due_date {{ts}} NOT NULL DEFAULT 0,
		paid_by TEXT NOT NULL,
		split_mode TEXT NOT NULL,
		status TEXT NOT NULL,
		group_id TEXT REFERENCES groups(id) ON DELETE SET NULL,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL,
		settled_at {{ts}} NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS group_bills (
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		linked_at {{ts}} NOT NULL,
		PRIMARY KEY (group_id, bill_id)
	)`,

	`CREATE TABLE IF NOT EXISTS bill_participants (
		bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		split_amount {{money}} NOT NULL,
		PRIMARY KEY (bill_id, participant_id)
	)`,

	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		price {{money}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS menu_item_consumers (
		item_id TEXT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (item_id, participant_id)
	)`,

	`CREATE TABLE IF NOT EXISTS payment_reports (
		bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL,
		amount {{money}} NOT NULL,
		status TEXT NOT NULL,
		paid_at {{ts}} NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (bill_id, participant_id)
	)`,

	`CREATE TABLE IF NOT EXISTS payment_confirmations (
		bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		amount {{money}} NOT NULL,
		confirmed_at {{ts}} NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (bill_id, participant_id)
	)`,

	`CREATE TABLE IF NOT EXISTS payment_requests (
		bill_id TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL,
		amount {{money}} NOT NULL,
		requested_by TEXT NOT NULL,
		requested_at {{ts}} NOT NULL,
		status TEXT NOT NULL,
		completed_at {{ts}} NOT NULL DEFAULT 0,
		PRIMARY KEY (bill_id, participant_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_group_id ON bills(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_due_date ON bills(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_bill_participants_participant ON bill_participants(participant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_bill_id ON menu_items(bill_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_bills_bill_id ON group_bills(bill_id)`,
}

// runMigrations executes the schema setup one statement at a time.
func runMigrations(ctx context.Context, db *sql.DB, d dialect) error {
	types := strings.NewReplacer("{{money}}", d.moneyType, "{{ts}}", d.timestampType)
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, types.Replace(migration)); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
