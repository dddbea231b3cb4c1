package entry

import "errors"

var (
	// ErrNotFound indicates the entry doesn't exist or is not visible to the viewer.
	ErrNotFound = errors.New("entry not found")
	// ErrUnauthorized indicates the viewer lacks the role the operation needs.
	ErrUnauthorized = errors.New("not authorized")
	// ErrInvalidTransition indicates a moderation target other than approved or rejected.
	ErrInvalidTransition = errors.New("invalid moderation transition")
	// ErrInvalidInput indicates invalid entry input.
	ErrInvalidInput = errors.New("invalid entry input")
)
