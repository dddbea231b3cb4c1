package entry

import (
	"context"
	"time"
)

// Repository provides persistence for entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	GetBySlug(ctx context.Context, slug string) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	UpdateStatus(ctx context.Context, id string, status Status, reason *string, updatedAt time.Time) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}
