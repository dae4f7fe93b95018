package ledger

import "errors"

var (
	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when a bill or group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor may not perform the operation.
	ErrForbidden = errors.New("permission denied")

	// ErrAlreadyConfirmed is returned when a confirmed payment would be changed.
	ErrAlreadyConfirmed = errors.New("payment already confirmed")

	// ErrPartialWrite is returned alongside a result when the first write of a
	// two-phase operation succeeded and the second failed. Reconcile repairs it.
	ErrPartialWrite = errors.New("partial write")
)
