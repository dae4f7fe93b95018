package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// Username is a lowercase handle derived from the display name. Also usable for login.
	Username string

	// DisplayName is the name shown to other members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// PaymentDetails are the bank details other participants pay to. Optional.
	PaymentDetails PaymentAccount

	CreatedAt int64
	UpdatedAt int64
}

// PaymentAccount holds the bank details rendered into a payment QR code by clients.
type PaymentAccount struct {
	BankName      string
	AccountNumber string
	AccountName   string
}

// Configured reports whether enough details exist to receive a QR payment.
func (a PaymentAccount) Configured() bool {
	return a.BankName != "" && a.AccountNumber != ""
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     UsernameFrom(displayName),
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UsernameFrom lowercases displayName and strips whitespace.
func UsernameFrom(displayName string) string {
	return strings.ToLower(strings.Join(strings.Fields(displayName), ""))
}
