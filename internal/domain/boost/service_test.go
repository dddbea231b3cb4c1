package boost_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/repository"
	"github.com/rpggio/launchpad/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

// memBoosts evaluates activity against the stored end time the same way the sqlite store does.
type memBoosts struct {
	rows []boost.Boost
}

func (m *memBoosts) Create(_ context.Context, b *boost.Boost) error {
	m.rows = append(m.rows, *b)
	return nil
}

func (m *memBoosts) CountActive(_ context.Context, at time.Time) (int, error) {
	n := 0
	for _, b := range m.rows {
		if b.Active(at) {
			n++
		}
	}
	return n, nil
}

func (m *memBoosts) HasActive(_ context.Context, entryID string, at time.Time) (bool, error) {
	for _, b := range m.rows {
		if b.EntryID == entryID && b.Active(at) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBoosts) ListActive(_ context.Context, at time.Time) ([]boost.Boost, error) {
	var out []boost.Boost
	for _, b := range m.rows {
		if b.Active(at) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memFeatured struct {
	rows []boost.FeaturedGrant
}

func (m *memFeatured) Create(_ context.Context, g *boost.FeaturedGrant) error {
	for _, r := range m.rows {
		if r.OwnerID == g.OwnerID && r.Month == g.Month {
			return repository.ErrConflict
		}
	}
	m.rows = append(m.rows, *g)
	return nil
}

func (m *memFeatured) CountForOwner(_ context.Context, ownerID string, from, to time.Time) (int, error) {
	n := 0
	for _, r := range m.rows {
		if r.OwnerID == ownerID && !r.GrantedAt.Before(from) && r.GrantedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *memFeatured) ListActive(_ context.Context, at time.Time) ([]boost.FeaturedGrant, error) {
	var out []boost.FeaturedGrant
	for _, r := range m.rows {
		if r.Active(at) {
			out = append(out, r)
		}
	}
	return out, nil
}

type entryTable map[string]*entry.Entry

func (t entryTable) Lookup(_ context.Context, id string) (*entry.Entry, error) {
	if e, ok := t[id]; ok {
		return e, nil
	}
	return nil, entry.ErrNotFound
}

func newService(entries entryTable) (*boost.Service, *memBoosts, *memFeatured) {
	boosts := &memBoosts{}
	featured := &memFeatured{}
	return boost.NewService(boosts, featured, entries, boost.Inventory{}, nil), boosts, featured
}

func TestGrant_ExpiryFreesSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	first, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "e0", Duration: time.Hour}, now)
	require.NoError(t, err)
	for i := 1; i < 5; i++ {
		_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: fmt.Sprintf("e%d", i)}, now)
		require.NoError(t, err)
	}

	count, err := svc.CountActive(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e5"}, now.Add(30*time.Minute))
	require.ErrorIs(t, err, boost.ErrCapacityExceeded)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e5"}, first.EndsAt.Add(-time.Nanosecond))
	require.ErrorIs(t, err, boost.ErrCapacityExceeded)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e5"}, first.EndsAt)
	require.NoError(t, err, "slot frees exactly at end time")

	count, err = svc.CountActive(ctx, first.EndsAt)
	require.NoError(t, err)
	require.Equal(t, 5, count)
}

func TestCountActive_AfterOneExpires(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "short", Duration: time.Hour}, now)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: fmt.Sprintf("long%d", i)}, now)
		require.NoError(t, err)
	}

	count, err := svc.CountActive(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 4, count)

	status, err := svc.Status(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, boost.InventoryStatus{Active: 4, Capacity: 5, Available: 1}, status)
}

func TestGrant_AlreadyBoosted(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	b, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "e1"}, now)
	require.NoError(t, err)
	require.Equal(t, now.Add(24*time.Hour), b.EndsAt)
	require.Equal(t, 0.5, b.Multiplier)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e1"}, now.Add(time.Hour))
	require.ErrorIs(t, err, boost.ErrAlreadyBoosted)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "e1"}, b.EndsAt)
	require.NoError(t, err)
}

func TestGrant_CapacityCheckedBeforeAlreadyBoosted(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)
	for i := 0; i < 5; i++ {
		_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: fmt.Sprintf("e%d", i)}, now)
		require.NoError(t, err)
	}

	_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "e0"}, now)
	require.ErrorIs(t, err, boost.ErrCapacityExceeded)
}

func TestGrant_InvalidInput(t *testing.T) {
	svc, _, _ := newService(nil)

	_, err := svc.Grant(context.Background(), boost.GrantRequest{}, now)
	require.ErrorIs(t, err, boost.ErrInvalidInput)

	_, err = svc.Grant(context.Background(), boost.GrantRequest{EntryID: "e1", Duration: -time.Hour}, now)
	require.ErrorIs(t, err, boost.ErrInvalidInput)
}

func TestGrant_StoreError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BoostRepository{}
	repo.On("CountActive", ctx, now).Return(0, errors.New("read timeout"))

	svc := boost.NewService(repo, &mocks.FeaturedRepository{}, entryTable{}, boost.Inventory{}, nil)
	_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "e1"}, now)

	require.True(t, repository.IsStoreError(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestActiveMultipliers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil)

	_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "a", Multiplier: 0.25}, now)
	require.NoError(t, err)
	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "b", Duration: time.Minute}, now)
	require.NoError(t, err)

	mult, err := svc.ActiveMultipliers(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"a": 0.25}, mult)
}

// staleBoosts reports a fixed active count while stale is set, the way a
// concurrent grant sees the count read before its sibling's insert lands.
type staleBoosts struct {
	*memBoosts
	stale *int
}

func (s *staleBoosts) CountActive(ctx context.Context, at time.Time) (int, error) {
	if s.stale != nil {
		return *s.stale, nil
	}
	return s.memBoosts.CountActive(ctx, at)
}

func TestGrant_RacingLastSlotLeavesInventoryOneOver(t *testing.T) {
	ctx := context.Background()
	boosts := &staleBoosts{memBoosts: &memBoosts{}}
	svc := boost.NewService(boosts, &memFeatured{}, nil, boost.Inventory{}, nil)

	_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: "short", Duration: time.Hour}, now)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := svc.Grant(ctx, boost.GrantRequest{EntryID: fmt.Sprintf("e%d", i)}, now)
		require.NoError(t, err)
	}

	// Both grants read four active boosts before either inserts.
	four := 4
	boosts.stale = &four
	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "x"}, now)
	require.NoError(t, err)
	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "y"}, now)
	require.NoError(t, err)
	boosts.stale = nil

	status, err := svc.Status(ctx, now)
	require.NoError(t, err)
	require.Equal(t, boost.InventoryStatus{Active: 6, Capacity: 5, Available: 0}, status)

	_, err = svc.Grant(ctx, boost.GrantRequest{EntryID: "z"}, now.Add(30*time.Minute))
	require.ErrorIs(t, err, boost.ErrCapacityExceeded)

	status, err = svc.Status(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, boost.InventoryStatus{Active: 5, Capacity: 5, Available: 0}, status)
}

func TestActiveMultipliers_DuplicateRowsLargerWins(t *testing.T) {
	ctx := context.Background()
	for _, order := range [][]float64{{0.25, 0.75}, {0.75, 0.25}} {
		svc, boosts, _ := newService(nil)
		for i, m := range order {
			boosts.rows = append(boosts.rows, boost.Boost{
				ID:         fmt.Sprintf("b%d", i),
				EntryID:    "dup",
				StartsAt:   now,
				EndsAt:     now.Add(24 * time.Hour),
				Multiplier: m,
			})
		}

		mult, err := svc.ActiveMultipliers(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		require.Equal(t, map[string]float64{"dup": 0.75}, mult, "order %v", order)
	}
}

func TestSpend_Authorization(t *testing.T) {
	ctx := context.Background()
	entries := entryTable{"e1": {ID: "e1", OwnerID: "owner", Status: entry.StatusApproved}}
	svc, _, _ := newService(entries)

	_, err := svc.Spend(ctx, entry.Viewer{ID: "owner"}, "e1", now)
	require.ErrorIs(t, err, entry.ErrUnauthorized)

	_, err = svc.Spend(ctx, entry.Viewer{ID: "other", Elevated: true}, "e1", now)
	require.ErrorIs(t, err, entry.ErrUnauthorized)

	_, err = svc.Spend(ctx, entry.Viewer{ID: "owner", Elevated: true}, "missing", now)
	require.ErrorIs(t, err, entry.ErrNotFound)

	b, err := svc.Spend(ctx, entry.Viewer{ID: "owner", Elevated: true}, "e1", now)
	require.NoError(t, err)
	require.Equal(t, "owner", b.GrantedBy)

	_, err = svc.Spend(ctx, entry.Viewer{ID: "staff", Admin: true}, "e1", now)
	require.ErrorIs(t, err, boost.ErrAlreadyBoosted)
}

func TestSpend_RequiresApprovedEntry(t *testing.T) {
	ctx := context.Background()
	entries := entryTable{
		"pending":  {ID: "pending", OwnerID: "owner", Status: entry.StatusPending},
		"rejected": {ID: "rejected", OwnerID: "owner", Status: entry.StatusRejected},
	}
	svc, boosts, _ := newService(entries)

	for _, id := range []string{"pending", "rejected"} {
		_, err := svc.Spend(ctx, entry.Viewer{ID: "owner", Elevated: true}, id, now)
		require.ErrorIs(t, err, boost.ErrNotPromotable, id)

		_, err = svc.Spend(ctx, entry.Viewer{ID: "staff", Admin: true}, id, now)
		require.ErrorIs(t, err, boost.ErrNotPromotable, id)
	}

	// Strangers learn nothing about the entry's status.
	_, err := svc.Spend(ctx, entry.Viewer{ID: "other", Elevated: true}, "pending", now)
	require.ErrorIs(t, err, entry.ErrUnauthorized)

	require.Empty(t, boosts.rows)
	status, err := svc.Status(ctx, now)
	require.NoError(t, err)
	require.Zero(t, status.Active)
}

func TestUseFeaturedToken_RequiresApprovedEntry(t *testing.T) {
	ctx := context.Background()
	entries := entryTable{
		"pending": {ID: "pending", OwnerID: "pro", Status: entry.StatusPending},
		"live":    {ID: "live", OwnerID: "pro", Status: entry.StatusApproved},
	}
	svc, _, featured := newService(entries)
	pro := entry.Viewer{ID: "pro", Elevated: true}

	_, err := svc.UseFeaturedToken(ctx, pro, "pending", now)
	require.ErrorIs(t, err, boost.ErrNotPromotable)
	require.Empty(t, featured.rows)

	g, err := svc.UseFeaturedToken(ctx, pro, "live", now)
	require.NoError(t, err, "a refused attempt does not spend the token")
	require.Equal(t, "live", g.EntryID)
}

func TestUseFeaturedToken_OncePerMonth(t *testing.T) {
	ctx := context.Background()
	entries := entryTable{
		"e1": {ID: "e1", OwnerID: "pro", Status: entry.StatusApproved},
		"e2": {ID: "e2", OwnerID: "pro", Status: entry.StatusApproved},
	}
	svc, _, featured := newService(entries)
	pro := entry.Viewer{ID: "pro", Elevated: true}

	g, err := svc.UseFeaturedToken(ctx, pro, "e1", now)
	require.NoError(t, err)
	require.Equal(t, "2026-06", g.Month)
	require.Equal(t, now.Add(24*time.Hour), g.ExpiresAt)

	_, err = svc.UseFeaturedToken(ctx, pro, "e2", now.Add(10*24*time.Hour))
	require.ErrorIs(t, err, boost.ErrAlreadyUsedThisMonth)

	nextMonth := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	g, err = svc.UseFeaturedToken(ctx, pro, "e2", nextMonth)
	require.NoError(t, err)
	require.Equal(t, "2026-07", g.Month)
	require.Len(t, featured.rows, 2)
}

func TestUseFeaturedToken_ConflictMapsToAlreadyUsed(t *testing.T) {
	ctx := context.Background()
	featured := &mocks.FeaturedRepository{}
	featured.On("CountForOwner", ctx, "pro", mock.Anything, mock.Anything).Return(0, nil)
	featured.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	svc := boost.NewService(&mocks.BoostRepository{}, featured, entryTable{"e1": {ID: "e1", OwnerID: "pro", Status: entry.StatusApproved}}, boost.Inventory{}, nil)
	_, err := svc.UseFeaturedToken(ctx, entry.Viewer{ID: "pro", Elevated: true}, "e1", now)

	require.ErrorIs(t, err, boost.ErrAlreadyUsedThisMonth)
}

func TestUseFeaturedToken_Authorization(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(entryTable{"e1": {ID: "e1", OwnerID: "pro", Status: entry.StatusApproved}})

	_, err := svc.UseFeaturedToken(ctx, entry.Viewer{ID: "pro"}, "e1", now)
	require.ErrorIs(t, err, entry.ErrUnauthorized)

	_, err = svc.UseFeaturedToken(ctx, entry.Viewer{ID: "someone", Elevated: true}, "e1", now)
	require.ErrorIs(t, err, entry.ErrUnauthorized)
}

func TestActiveFeatured(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(entryTable{"e1": {ID: "e1", OwnerID: "pro", Status: entry.StatusApproved}})

	_, err := svc.UseFeaturedToken(ctx, entry.Viewer{ID: "pro", Elevated: true}, "e1", now)
	require.NoError(t, err)

	active, err := svc.ActiveFeatured(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, active["e1"])

	active, err = svc.ActiveFeatured(ctx, now.Add(25*time.Hour))
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestMonthWindow(t *testing.T) {
	start, end, key := boost.MonthWindow(time.Date(2026, 12, 31, 23, 59, 0, 0, time.FixedZone("x", -5*3600)))

	require.Equal(t, "2027-01", key)
	require.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), end)
}
