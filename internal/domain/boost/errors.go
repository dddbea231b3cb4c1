package boost

import "errors"

var (
	// ErrCapacityExceeded indicates every boost slot is in use.
	ErrCapacityExceeded = errors.New("all boost slots are in use")
	// ErrAlreadyBoosted indicates the entry already has an active boost.
	ErrAlreadyBoosted = errors.New("entry is already boosted")
	// ErrAlreadyUsedThisMonth indicates the owner spent this month's featured token.
	ErrAlreadyUsedThisMonth = errors.New("featured token already used this month")
	// ErrNotPromotable indicates the entry is not approved.
	ErrNotPromotable = errors.New("only approved entries can be promoted")
	// ErrInvalidInput indicates invalid boost input.
	ErrInvalidInput = errors.New("invalid boost input")
)
