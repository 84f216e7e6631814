package ledger

import "errors"

// Closed error taxonomy for ledger operations. Callers match with
// errors.Is; every engine error wraps exactly one of these.
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientAmount  = errors.New("amount below activation threshold")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("below plan minimum")
	ErrAlreadyResolved     = errors.New("already resolved")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrInternal            = errors.New("internal error")
)
