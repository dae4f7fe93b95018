package models

// Actor is the authenticated user performing an operation.
// Ledger and registry calls authorize against Actor.ID.
type Actor struct {
	ID          string
	DisplayName string
}
