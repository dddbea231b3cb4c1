package sqlite

import (
	"context"
	"time"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/repository"
)

// BoostRepository implements boost.Repository for SQLite.
// Activity is always evaluated against the caller's now; rows are never swept.
type BoostRepository struct {
	db *DB
}

// NewBoostRepository creates a new BoostRepository
func NewBoostRepository(db *DB) *BoostRepository {
	return &BoostRepository{db: db}
}

// Create inserts a boost. An unknown entry reports repository.ErrNotFound.
func (r *BoostRepository) Create(ctx context.Context, b *boost.Boost) error {
	query := `
		INSERT INTO boosts (id, entry_id, granted_by, starts_at, ends_at, multiplier)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.EntryID,
		b.GrantedBy,
		toUnix(b.StartsAt),
		toUnix(b.EndsAt),
		b.Multiplier,
	)
	return mapWriteError("create boost", b.EntryID, err)
}

// CountActive returns the number of boosts with ends_at after now
func (r *BoostRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boosts WHERE ends_at > ?`,
		toUnix(now),
	).Scan(&count)
	if err != nil {
		return 0, repository.NewStoreError("count active boosts", "", err)
	}
	return count, nil
}

// HasActive reports whether the entry has a boost with ends_at after now
func (r *BoostRepository) HasActive(ctx context.Context, entryID string, now time.Time) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM boosts WHERE entry_id = ? AND ends_at > ?)`,
		entryID, toUnix(now),
	).Scan(&exists)
	if err != nil {
		return false, repository.NewStoreError("check active boost", entryID, err)
	}
	return exists == 1, nil
}

// ListActive returns every boost with ends_at after now, soonest to expire first
func (r *BoostRepository) ListActive(ctx context.Context, now time.Time) ([]boost.Boost, error) {
	query := `
		SELECT id, entry_id, granted_by, starts_at, ends_at, multiplier
		FROM boosts
		WHERE ends_at > ?
		ORDER BY ends_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, toUnix(now))
	if err != nil {
		return nil, repository.NewStoreError("list active boosts", "", err)
	}
	defer rows.Close()

	var boosts []boost.Boost
	for rows.Next() {
		var b boost.Boost
		var startsAt, endsAt int64
		if err := rows.Scan(&b.ID, &b.EntryID, &b.GrantedBy, &startsAt, &endsAt, &b.Multiplier); err != nil {
			return nil, repository.NewStoreError("scan boost", "", err)
		}
		b.StartsAt = fromUnix(startsAt)
		b.EndsAt = fromUnix(endsAt)
		boosts = append(boosts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.NewStoreError("list active boosts", "", err)
	}

	return boosts, nil
}
