package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestBoostRepository_ActiveWindow(t *testing.T) {
	db := NewTestDB(t)
	repo := NewBoostRepository(db)
	ctx := context.Background()

	insertEntry(t, db, "e1", "u1", base)
	insertEntry(t, db, "e2", "u1", base)

	require.NoError(t, repo.Create(ctx, &boost.Boost{ID: "b1", EntryID: "e1", StartsAt: base, EndsAt: base.Add(time.Hour), Multiplier: 0.5}))
	require.NoError(t, repo.Create(ctx, &boost.Boost{ID: "b2", EntryID: "e2", StartsAt: base, EndsAt: base.Add(2 * time.Hour), Multiplier: 0.25}))

	count, err := repo.CountActive(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = repo.CountActive(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, count, "end time equal to now is expired")

	has, err := repo.HasActive(ctx, "e1", base.Add(59*time.Minute))
	require.NoError(t, err)
	require.True(t, has)

	has, err = repo.HasActive(ctx, "e1", base.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, has)

	active, err := repo.ListActive(ctx, base)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "b1", active[0].ID)
	require.Equal(t, 0.25, active[1].Multiplier)
	require.True(t, active[1].EndsAt.Equal(base.Add(2*time.Hour)))
}

func TestBoostRepository_UnknownEntry(t *testing.T) {
	db := NewTestDB(t)
	repo := NewBoostRepository(db)

	err := repo.Create(context.Background(), &boost.Boost{ID: "b1", EntryID: "ghost", StartsAt: base, EndsAt: base.Add(time.Hour)})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

// TestBoostService_InventoryOverSQLite runs the inventory rules against the real store.
func TestBoostService_InventoryOverSQLite(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	entries := entry.NewService(NewEntryRepository(db), nil)
	svc := boost.NewService(NewBoostRepository(db), NewFeaturedRepository(db), entries, boost.Inventory{}, nil)

	for i := 0; i < 6; i++ {
		insertEntry(t, db, fmt.Sprintf("e%d", i), "u1", base)
	}

	first, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "e0", Duration: time.Hour}, base)
	require.NoError(t, err)
	for i := 1; i < 5; i++ {
		_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: fmt.Sprintf("e%d", i)}, base)
		require.NoError(t, err)
	}

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e5"}, base.Add(time.Minute))
	require.ErrorIs(t, err, boost.ErrCapacityExceeded)

	count, err := svc.CountActive(ctx, first.EndsAt)
	require.NoError(t, err)
	require.Equal(t, 4, count)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e5"}, first.EndsAt)
	require.NoError(t, err)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e0"}, first.EndsAt)
	require.ErrorIs(t, err, boost.ErrCapacityExceeded)
}
