package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/repository"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new action
func (r *ActivityRepository) Log(ctx context.Context, action *activity.Action) error {
	createdAt := action.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO action_log (
			action_type, user_id, ip_hash, user_agent, entry_id, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		action.Type,
		nullString(action.UserID),
		nullString(action.IPHash),
		nullString(action.UserAgent),
		nullString(action.EntryID),
		action.Details,
		toUnix(createdAt),
	)
	if err != nil {
		return repository.NewStoreError("log action", "", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		action.ID = id
	}
	action.CreatedAt = createdAt

	return nil
}

// keyColumns whitelists the columns Count may filter on.
var keyColumns = map[activity.KeyField]string{
	activity.KeyUserID:    "user_id",
	activity.KeyIPHash:    "ip_hash",
	activity.KeyUserAgent: "user_agent",
}

// Count returns the number of actions of one type for one identity key in (Since, Until]
func (r *ActivityRepository) Count(ctx context.Context, opts activity.CountOptions) (int, error) {
	column, ok := keyColumns[opts.Field]
	if !ok {
		return 0, fmt.Errorf("count actions by %q: %w", opts.Field, repository.ErrInvalidInput)
	}

	query := `
		SELECT COUNT(*) FROM action_log
		WHERE action_type = ? AND ` + column + ` = ? AND created_at > ? AND created_at <= ?
	`

	var count int
	err := r.db.QueryRowContext(ctx, query,
		opts.Type,
		opts.Value,
		toUnix(opts.Since),
		toUnix(opts.Until),
	).Scan(&count)
	if err != nil {
		return 0, repository.NewStoreError("count actions", "", err)
	}
	return count, nil
}

// List returns actions matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Action, error) {
	query := `
		SELECT id, action_type, user_id, ip_hash, user_agent, entry_id, details, created_at
		FROM action_log
	`

	var args []interface{}
	var conditions []string

	if opts.Type != nil {
		conditions = append(conditions, "action_type = ?")
		args = append(args, *opts.Type)
	}
	if opts.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *opts.UserID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

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
		return nil, repository.NewStoreError("list actions", "", err)
	}
	defer rows.Close()

	var actions []activity.Action
	for rows.Next() {
		var a activity.Action
		var userID, ipHash, userAgent, entryID sql.NullString
		var createdAt int64
		if err := rows.Scan(
			&a.ID,
			&a.Type,
			&userID,
			&ipHash,
			&userAgent,
			&entryID,
			&a.Details,
			&createdAt,
		); err != nil {
			return nil, repository.NewStoreError("scan action", "", err)
		}
		a.UserID = stringPtr(userID)
		a.IPHash = stringPtr(ipHash)
		a.UserAgent = stringPtr(userAgent)
		a.EntryID = stringPtr(entryID)
		a.CreatedAt = fromUnix(createdAt)
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, repository.NewStoreError("list actions", "", err)
	}

	return actions, nil
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	joined := conditions[0]
	for i := 1; i < len(conditions); i++ {
		joined += " AND " + conditions[i]
	}
	return joined
}
