package service

import "errors"

var ErrNotFound = errors.New("not found")

var (
	ErrDecode     = errors.New("decode")
	ErrValidation = errors.New("validation")
)

// Business-rule conflicts. All recoverable at the call site; the HTTP layer
// maps them to 4xx statuses.
var (
	ErrNoOpenShift        = errors.New("no open shift")
	ErrShiftAlreadyOpen   = errors.New("a shift is already open")
	ErrShiftAlreadyClosed = errors.New("shift already closed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidState       = errors.New("invalid state for operation")
	ErrAlreadySettled     = errors.New("order already settled")
	ErrConflict           = errors.New("concurrent update, retry with fresh state")
)
