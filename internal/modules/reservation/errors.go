package reservation

import "errors"

var (
	ErrInvalidWindow = errors.New("invalid reservation window")
	ErrNotFound      = errors.New("reservation not found")
	ErrInvalidState  = errors.New("invalid reservation state")
	ErrConflict      = errors.New("reservation conflict")
)
