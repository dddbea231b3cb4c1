package mocks

import (
	"context"
	"time"

	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/profile"
	"github.com/stretchr/testify/mock"
)

// EntryRepository is a mock for entry.Repository.
type EntryRepository struct {
	mock.Mock
}

func (m *EntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EntryRepository) Get(ctx context.Context, id string) (*entry.Entry, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*entry.Entry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) GetBySlug(ctx context.Context, slug string) (*entry.Entry, error) {
	args := m.Called(ctx, slug)
	if e, ok := args.Get(0).(*entry.Entry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) Update(ctx context.Context, e *entry.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EntryRepository) UpdateStatus(ctx context.Context, id string, status entry.Status, reason *string, updatedAt time.Time) error {
	args := m.Called(ctx, id, status, reason, updatedAt)
	return args.Error(0)
}

func (m *EntryRepository) List(ctx context.Context, opts entry.ListOptions) ([]entry.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]entry.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProfileRepository is a mock for profile.Repository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*profile.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, action *activity.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *ActivityRepository) Count(ctx context.Context, opts activity.CountOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Action, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Action); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// BoostRepository is a mock for boost.Repository.
type BoostRepository struct {
	mock.Mock
}

func (m *BoostRepository) Create(ctx context.Context, b *boost.Boost) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BoostRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *BoostRepository) HasActive(ctx context.Context, entryID string, now time.Time) (bool, error) {
	args := m.Called(ctx, entryID, now)
	return args.Bool(0), args.Error(1)
}

func (m *BoostRepository) ListActive(ctx context.Context, now time.Time) ([]boost.Boost, error) {
	args := m.Called(ctx, now)
	if list, ok := args.Get(0).([]boost.Boost); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// FeaturedRepository is a mock for boost.FeaturedRepository.
type FeaturedRepository struct {
	mock.Mock
}

func (m *FeaturedRepository) Create(ctx context.Context, g *boost.FeaturedGrant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *FeaturedRepository) CountForOwner(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *FeaturedRepository) ListActive(ctx context.Context, now time.Time) ([]boost.FeaturedGrant, error) {
	args := m.Called(ctx, now)
	if list, ok := args.Get(0).([]boost.FeaturedGrant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
