// Package models defines the core domain models for billmate.
//
// # Models
//
//   - Bill: a restaurant bill fronted by one participant (the owner) and split among
//     its participants, either evenly, by custom amounts, or by menu items
//   - MenuItem: one line of an itemized bill, shared by its consumers
//   - Payments: the per-participant payment records of a bill (self-reports, owner
//     confirmations, and owner requests)
//   - Group: a set of members sharing a join code and a bill history
//   - User: a registered account, optionally carrying bank details for QR payments
//
// # Design Principles
//
//  1. Money is decimal.Decimal; amounts that leave the split engine are rounded to cents
//  2. Relationships use ID strings instead of pointers
//  3. Timestamps are Unix seconds; zero means "not set"
//  4. Payment records live in three explicitly typed maps keyed by participant ID,
//     never in one map with composite string keys
package models
