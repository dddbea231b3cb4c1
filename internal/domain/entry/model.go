package entry

import "time"

// Status is the moderation lifecycle state of an entry
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Visibility controls whether an approved entry is enumerable in listings
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// Entry represents a submitted project
type Entry struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Tagline         string     `json:"tagline,omitempty"`
	URL             string     `json:"url"`
	Status          Status     `json:"status"`
	Visibility      Visibility `json:"visibility"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	VoteCount       int        `json:"vote_count"`
	TrendingScore   float64    `json:"trending_score"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Viewer is the identity a request is evaluated for. The zero value is anonymous.
type Viewer struct {
	ID       string `json:"id,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
	Elevated bool   `json:"elevated,omitempty"`
}

// Anonymous returns a viewer with no identity.
func Anonymous() Viewer {
	return Viewer{}
}

// Authenticated reports whether the viewer carries an identity.
func (v Viewer) Authenticated() bool {
	return v.ID != ""
}

// Owns reports whether the viewer is the owner of e.
func (v Viewer) Owns(e *Entry) bool {
	return e != nil && v.Authenticated() && v.ID == e.OwnerID
}

// View names a cached page that a write makes stale
type View string

// ViewListing is the global enumerable listing.
const ViewListing View = "listing"

// DetailView returns the detail view for one entry.
func DetailView(entryID string) View {
	return View("entry:" + entryID)
}

// TransitionResult is the outcome of a moderation transition
type TransitionResult struct {
	Entry      *Entry `json:"entry"`
	Invalidate []View `json:"invalidate"`
}
