package profile

import "errors"

var (
	// ErrProfileNotFound indicates the profile doesn't exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidInput indicates invalid profile input.
	ErrInvalidInput = errors.New("invalid profile input")
)
