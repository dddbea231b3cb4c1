package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestFeaturedRepository_UniquePerMonth(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFeaturedRepository(db)
	ctx := context.Background()

	insertEntry(t, db, "e1", "pro", base)
	insertEntry(t, db, "e2", "pro", base)

	g := &boost.FeaturedGrant{ID: "g1", OwnerID: "pro", EntryID: "e1", Month: "2026-02", GrantedAt: base, ExpiresAt: base.Add(24 * time.Hour)}
	require.NoError(t, repo.Create(ctx, g))

	dup := &boost.FeaturedGrant{ID: "g2", OwnerID: "pro", EntryID: "e2", Month: "2026-02", GrantedAt: base, ExpiresAt: base.Add(24 * time.Hour)}
	require.ErrorIs(t, repo.Create(ctx, dup), repository.ErrConflict)

	start, end, _ := boost.MonthWindow(base)
	count, err := repo.CountForOwner(ctx, "pro", start, end)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = repo.CountForOwner(ctx, "pro", end, end.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestFeaturedRepository_ListActive(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFeaturedRepository(db)
	ctx := context.Background()

	insertEntry(t, db, "e1", "pro", base)
	require.NoError(t, repo.Create(ctx, &boost.FeaturedGrant{
		ID: "g1", OwnerID: "pro", EntryID: "e1", Month: "2026-02", GrantedAt: base, ExpiresAt: base.Add(24 * time.Hour),
	}))

	active, err := repo.ListActive(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "2026-02", active[0].Month)

	active, err = repo.ListActive(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestFeaturedToken_OverSQLite(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	entries := entry.NewService(NewEntryRepository(db), nil)
	svc := boost.NewService(NewBoostRepository(db), NewFeaturedRepository(db), entries, boost.Inventory{}, nil)
	pro := entry.Viewer{ID: "pro", Elevated: true}

	insertEntry(t, db, "e1", "pro", base)
	insertEntry(t, db, "e2", "pro", base)

	_, err := svc.UseFeaturedToken(ctx, pro, "e1", base)
	require.NoError(t, err)

	_, err = svc.UseFeaturedToken(ctx, pro, "e2", base.Add(48*time.Hour))
	require.ErrorIs(t, err, boost.ErrAlreadyUsedThisMonth)

	_, err = svc.UseFeaturedToken(ctx, pro, "e2", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
}
