package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Store errors
var (
	// ErrStoreUnavailable signals that the backing medium for the record
	// store cannot be reached; callers fall back to the secondary store.
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrWriteFailed      = errors.New("record store write failed")
)

// Settlement errors
var (
	ErrNotEligible     = errors.New("member not eligible for payout")
	ErrNothingToSettle = errors.New("no unpaid deposit for member")
)

// Member errors
var (
	ErrMemberNotFound = errors.New("member not found")
)
