package sqlite

import (
	"context"
	"time"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/repository"
)

// FeaturedRepository implements boost.FeaturedRepository for SQLite
type FeaturedRepository struct {
	db *DB
}

// NewFeaturedRepository creates a new FeaturedRepository
func NewFeaturedRepository(db *DB) *FeaturedRepository {
	return &FeaturedRepository{db: db}
}

// Create inserts a grant. UNIQUE(owner_id, month) surfaces as repository.ErrConflict.
func (r *FeaturedRepository) Create(ctx context.Context, g *boost.FeaturedGrant) error {
	query := `
		INSERT INTO featured_grants (id, owner_id, entry_id, month, granted_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.OwnerID,
		g.EntryID,
		g.Month,
		toUnix(g.GrantedAt),
		toUnix(g.ExpiresAt),
	)
	return mapWriteError("create featured grant", g.EntryID, err)
}

// CountForOwner returns the owner's grants with granted_at in [from, to)
func (r *FeaturedRepository) CountForOwner(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM featured_grants WHERE owner_id = ? AND granted_at >= ? AND granted_at < ?`,
		ownerID, toUnix(from), toUnix(to),
	).Scan(&count)
	if err != nil {
		return 0, repository.NewStoreError("count featured grants", "", err)
	}
	return count, nil
}

// ListActive returns grants with expires_at after now
func (r *FeaturedRepository) ListActive(ctx context.Context, now time.Time) ([]boost.FeaturedGrant, error) {
	query := `
		SELECT id, owner_id, entry_id, month, granted_at, expires_at
		FROM featured_grants
		WHERE expires_at > ?
		ORDER BY granted_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, toUnix(now))
	if err != nil {
		return nil, repository.NewStoreError("list featured grants", "", err)
	}
	defer rows.Close()

	var grants []boost.FeaturedGrant
	for rows.Next() {
		var g boost.FeaturedGrant
		var grantedAt, expiresAt int64
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.EntryID, &g.Month, &grantedAt, &expiresAt); err != nil {
			return nil, repository.NewStoreError("scan featured grant", "", err)
		}
		g.GrantedAt = fromUnix(grantedAt)
		g.ExpiresAt = fromUnix(expiresAt)
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.NewStoreError("list featured grants", "", err)
	}

	return grants, nil
}
