package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rpggio/launchpad/internal/domain/profile"
	"github.com/rpggio/launchpad/internal/repository"
)

// ProfileRepository implements profile.Repository for SQLite
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert creates a profile or replaces its mutable fields, keeping the original created_at
func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, tier, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			tier = excluded.tier,
			role = excluded.role,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.DisplayName,
		p.Tier,
		p.Role,
		toUnix(p.CreatedAt),
		toUnix(p.UpdatedAt),
	)
	return mapWriteError("upsert profile", p.ID, err)
}

// Get retrieves a profile by ID
func (r *ProfileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	query := `
		SELECT id, display_name, tier, role, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`

	var p profile.Profile
	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.DisplayName,
		&p.Tier,
		&p.Role,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, repository.NewStoreError("get profile", id, err)
	}

	p.CreatedAt = fromUnix(createdAt)
	p.UpdatedAt = fromUnix(updatedAt)
	return &p, nil
}
