package activity

import "context"

// Repository provides persistence operations for the action log.
type Repository interface {
	Log(ctx context.Context, action *Action) error
	Count(ctx context.Context, opts CountOptions) (int, error)
	List(ctx context.Context, opts ListOptions) ([]Action, error)
}
