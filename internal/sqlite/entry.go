package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/repository"
)

const entryColumns = `
	id, owner_id, name, slug, tagline, url, status, visibility,
	rejection_reason, vote_count, trending_score, created_at, updated_at
`

// EntryRepository implements entry.Repository for SQLite
type EntryRepository struct {
	db *DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts a new entry. A taken slug reports repository.ErrConflict.
func (r *EntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.OwnerID,
		e.Name,
		e.Slug,
		e.Tagline,
		e.URL,
		e.Status,
		e.Visibility,
		nullString(e.RejectionReason),
		e.VoteCount,
		e.TrendingScore,
		toUnix(e.CreatedAt),
		toUnix(e.UpdatedAt),
	)
	return mapWriteError("create entry", e.ID, err)
}

// Get retrieves an entry by ID
func (r *EntryRepository) Get(ctx context.Context, id string) (*entry.Entry, error) {
	return r.getOne(ctx, "get entry", `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
}

// GetBySlug retrieves an entry by slug
func (r *EntryRepository) GetBySlug(ctx context.Context, slug string) (*entry.Entry, error) {
	return r.getOne(ctx, "get entry by slug", `SELECT `+entryColumns+` FROM entries WHERE slug = ?`, slug)
}

func (r *EntryRepository) getOne(ctx context.Context, op, query, key string) (*entry.Entry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, repository.NewStoreError(op, key, err)
	}
	return e, nil
}

// Update replaces the owner-editable fields of an entry
func (r *EntryRepository) Update(ctx context.Context, e *entry.Entry) error {
	query := `
		UPDATE entries
		SET name = ?, tagline = ?, url = ?, visibility = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		e.Name,
		e.Tagline,
		e.URL,
		e.Visibility,
		toUnix(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return mapWriteError("update entry", e.ID, err)
	}
	return requireRow(result, "update entry", e.ID)
}

// UpdateStatus records a moderation decision
func (r *EntryRepository) UpdateStatus(ctx context.Context, id string, status entry.Status, reason *string, updatedAt time.Time) error {
	query := `
		UPDATE entries
		SET status = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, nullString(reason), toUnix(updatedAt), id)
	if err != nil {
		return mapWriteError("update entry status", id, err)
	}
	return requireRow(result, "update entry status", id)
}

// List returns entries matching the given filters, newest first unless OldestFirst is set
func (r *EntryRepository) List(ctx context.Context, opts entry.ListOptions) ([]entry.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries`

	var args []interface{}
	var conditions []string

	if len(opts.Statuses) > 0 {
		conditions = append(conditions, "status IN ("+placeholders(len(opts.Statuses))+")")
		for _, s := range opts.Statuses {
			args = append(args, s)
		}
	}
	if opts.Visibility != nil {
		conditions = append(conditions, "visibility = ?")
		args = append(args, *opts.Visibility)
	}
	if len(opts.OwnerIDs) > 0 {
		conditions = append(conditions, "owner_id IN ("+placeholders(len(opts.OwnerIDs))+")")
		for _, id := range opts.OwnerIDs {
			args = append(args, id)
		}
	}

	where := joinConditions(conditions)
	if opts.OrOwnerID != "" {
		if where == "" {
			where = "1 = 1"
		}
		where = "(" + where + ") OR owner_id = ?"
		args = append(args, opts.OrOwnerID)
	}
	if where != "" {
		query += " WHERE " + where
	}

	if opts.OldestFirst {
		query += " ORDER BY created_at ASC, id ASC"
	} else {
		query += " ORDER BY created_at DESC, id ASC"
	}

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, repository.NewStoreError("list entries", "", err)
	}
	defer rows.Close()

	entries := []entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, repository.NewStoreError("scan entry", "", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.NewStoreError("list entries", "", err)
	}

	return entries, nil
}

// SetEngagement stores the counters produced by the engagement collaborator.
func (r *EntryRepository) SetEngagement(ctx context.Context, id string, votes int, trending float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE entries SET vote_count = ?, trending_score = ? WHERE id = ?`,
		votes, trending, id,
	)
	if err != nil {
		return mapWriteError("set engagement", id, err)
	}
	return requireRow(result, "set engagement", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*entry.Entry, error) {
	var e entry.Entry
	var reason sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Name,
		&e.Slug,
		&e.Tagline,
		&e.URL,
		&e.Status,
		&e.Visibility,
		&reason,
		&e.VoteCount,
		&e.TrendingScore,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	e.RejectionReason = stringPtr(reason)
	e.CreatedAt = fromUnix(createdAt)
	e.UpdatedAt = fromUnix(updatedAt)
	return &e, nil
}

func requireRow(result sql.Result, op, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return repository.NewStoreError(op, id, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
