package payment

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrConflict         = errors.New("conflict")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrProviderMismatch = errors.New("provider mismatch")
	ErrGateway          = errors.New("payment gateway failure")
)
