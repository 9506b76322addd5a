package repository

import "errors"

var (
	// ErrStaleVersion means the row changed since it was read; the write
	// was rejected and nothing was persisted.
	ErrStaleVersion = errors.New("stale version")

	// ErrDuplicatePayment means a payment row already exists for the
	// reservation, whether seen by the guarded check or by the unique
	// index at insert time.
	ErrDuplicatePayment = errors.New("payment already exists for reservation")

	// ErrOverlap means another active reservation occupies the window;
	// raised by the guarded write, not the advisory pre-check.
	ErrOverlap = errors.New("reservation window overlaps an active reservation")
)
