package activity

import "time"

// ActionType is the kind of throttled user action
type ActionType string

const (
	TypeSubmission     ActionType = "submission"
	TypeContactMessage ActionType = "contact_message"
)

// Action is one record in the action log. Network origins are stored only as
// one-way fingerprints.
type Action struct {
	ID        int64      `json:"id"`
	Type      ActionType `json:"type"`
	UserID    *string    `json:"user_id,omitempty"`
	IPHash    *string    `json:"-"`
	UserAgent *string    `json:"-"`
	EntryID   *string    `json:"entry_id,omitempty"`
	Details   string     `json:"details,omitempty"` // JSON string
	CreatedAt time.Time  `json:"created_at"`
}

// KeyField is an action log column an identity can be counted by
type KeyField string

const (
	KeyUserID    KeyField = "user_id"
	KeyIPHash    KeyField = "ip_hash"
	KeyUserAgent KeyField = "user_agent"
)

// CountOptions selects actions of one type for one identity key in (Since, Until].
type CountOptions struct {
	Type  ActionType
	Field KeyField
	Value string
	Since time.Time
	Until time.Time
}

// ListOptions provides filtering options for listing actions.
type ListOptions struct {
	Type   *ActionType
	UserID *string
	Limit  int
	Offset int
}
