package boost

import (
	"context"
	"time"

	"github.com/rpggio/launchpad/internal/domain/entry"
)

// Repository provides persistence for boosts.
type Repository interface {
	Create(ctx context.Context, b *Boost) error
	CountActive(ctx context.Context, now time.Time) (int, error)
	HasActive(ctx context.Context, entryID string, now time.Time) (bool, error)
	ListActive(ctx context.Context, now time.Time) ([]Boost, error)
}

// FeaturedRepository provides persistence for featured grants.
// Create reports repository.ErrConflict when the owner already has a grant for the month.
type FeaturedRepository interface {
	Create(ctx context.Context, g *FeaturedGrant) error
	CountForOwner(ctx context.Context, ownerID string, from, to time.Time) (int, error)
	ListActive(ctx context.Context, now time.Time) ([]FeaturedGrant, error)
}

// EntryLookup loads entries for ownership checks.
type EntryLookup interface {
	Lookup(ctx context.Context, id string) (*entry.Entry, error)
}
