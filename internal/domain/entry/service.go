package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/launchpad/internal/repository"
)

// Service handles entry submission, edits, lookups and moderation.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new entry service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// SubmitRequest describes a new entry.
type SubmitRequest struct {
	Name       string
	Tagline    string
	URL        string
	Visibility Visibility
}

// UpdateRequest describes an owner edit. Nil fields are left unchanged.
type UpdateRequest struct {
	ID         string
	Name       *string
	Tagline    *string
	URL        *string
	Visibility *Visibility
}

// TransitionRequest describes a moderation decision.
type TransitionRequest struct {
	ID     string
	To     Status
	Reason *string
}

// Submit creates a pending entry owned by the viewer.
func (s *Service) Submit(ctx context.Context, viewer Viewer, req SubmitRequest, now time.Time) (*Entry, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthorized
	}
	if err := ValidateSubmitInput(req); err != nil {
		return nil, err
	}

	e := &Entry{
		ID:         uuid.NewString(),
		OwnerID:    viewer.ID,
		Name:       strings.TrimSpace(req.Name),
		Tagline:    strings.TrimSpace(req.Tagline),
		URL:        strings.TrimSpace(req.URL),
		Status:     StatusPending,
		Visibility: CoerceVisibility(req.Visibility, viewer),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	e.Slug = Slugify(e.Name)
	if e.Slug == "" {
		e.Slug = "entry"
	}

	err := s.repo.Create(ctx, e)
	if errors.Is(err, repository.ErrConflict) {
		// Slug taken; the first insert wrote nothing so a suffixed retry is safe.
		e.Slug = fmt.Sprintf("%s-%s", e.Slug, e.ID[:8])
		err = s.repo.Create(ctx, e)
	}
	if err != nil {
		return nil, repository.NewStoreError("submit entry", e.ID, err)
	}

	s.logger.Info("entry submitted", "entry_id", e.ID, "owner_id", e.OwnerID, "visibility", e.Visibility)
	return e, nil
}

// Update applies an owner edit.
func (s *Service) Update(ctx context.Context, viewer Viewer, req UpdateRequest, now time.Time) (*Entry, error) {
	if !viewer.Authenticated() {
		return nil, ErrUnauthorized
	}
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, "update entry", req.ID)
	if err != nil {
		return nil, err
	}
	if !viewer.Owns(current) {
		return nil, ErrUnauthorized
	}

	updated := *current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Tagline != nil {
		updated.Tagline = strings.TrimSpace(*req.Tagline)
	}
	if req.URL != nil {
		updated.URL = strings.TrimSpace(*req.URL)
	}
	if req.Visibility != nil {
		updated.Visibility = CoerceVisibility(*req.Visibility, viewer)
	}
	updated.UpdatedAt = now

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repository.NewStoreError("update entry", req.ID, err)
	}
	return &updated, nil
}

// Transition moves an entry to approved or rejected. Administrators only.
func (s *Service) Transition(ctx context.Context, viewer Viewer, req TransitionRequest, now time.Time) (*TransitionResult, error) {
	if !viewer.Admin {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidateTransition(req.To); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, "moderate entry", req.ID)
	if err != nil {
		return nil, err
	}

	var reason *string
	if req.To == StatusRejected && req.Reason != nil {
		if trimmed := strings.TrimSpace(*req.Reason); trimmed != "" {
			reason = &trimmed
		}
	}

	if err := s.repo.UpdateStatus(ctx, current.ID, req.To, reason, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repository.NewStoreError("moderate entry", current.ID, err)
	}

	updated := *current
	updated.Status = req.To
	updated.RejectionReason = reason
	updated.UpdatedAt = now

	s.logger.Info("entry moderated", "entry_id", updated.ID, "from", current.Status, "to", updated.Status, "admin_id", viewer.ID)

	return &TransitionResult{
		Entry:      &updated,
		Invalidate: []View{ViewListing, DetailView(updated.ID)},
	}, nil
}

// Approve is Transition to approved.
func (s *Service) Approve(ctx context.Context, viewer Viewer, id string, now time.Time) (*TransitionResult, error) {
	return s.Transition(ctx, viewer, TransitionRequest{ID: id, To: StatusApproved}, now)
}

// Reject is Transition to rejected with an optional reason.
func (s *Service) Reject(ctx context.Context, viewer Viewer, id, reason string, now time.Time) (*TransitionResult, error) {
	return s.Transition(ctx, viewer, TransitionRequest{ID: id, To: StatusRejected, Reason: &reason}, now)
}

// Get looks an entry up by id or slug for a detail view.
// Entries the viewer may not read are reported as not found.
func (s *Service) Get(ctx context.Context, viewer Viewer, ref string) (*Entry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidInput
	}

	// The slug is only tried when no id matches. An id hit the viewer cannot
	// read stays not found even if another entry has that slug.
	e, err := s.repo.Get(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		e, err = s.repo.GetBySlug(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repository.NewStoreError("get entry", ref, err)
	}

	if !CanView(e, viewer, ModeDetail) {
		return nil, ErrNotFound
	}
	return e, nil
}

// Visible returns every entry the viewer may see in an enumerable listing, unordered.
func (s *Service) Visible(ctx context.Context, viewer Viewer) ([]Entry, error) {
	opts := ListOptions{}
	if !viewer.Admin {
		public := VisibilityPublic
		opts = ListOptions{
			Statuses:   []Status{StatusApproved},
			Visibility: &public,
			OrOwnerID:  viewer.ID,
		}
	}

	candidates, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, repository.NewStoreError("list entries", "", err)
	}

	// The store filter is a narrowing hint; the resolver has the final say.
	return FilterVisible(candidates, viewer, ModeListing), nil
}

// Queue returns pending entries, oldest first. Administrators only.
func (s *Service) Queue(ctx context.Context, viewer Viewer) ([]Entry, error) {
	if !viewer.Admin {
		return nil, ErrUnauthorized
	}
	pending, err := s.repo.List(ctx, ListOptions{
		Statuses:    []Status{StatusPending},
		OldestFirst: true,
	})
	if err != nil {
		return nil, repository.NewStoreError("list moderation queue", "", err)
	}
	return pending, nil
}

// Lookup loads an entry without a visibility check, for internal authorization gates.
func (s *Service) Lookup(ctx context.Context, id string) (*Entry, error) {
	return s.load(ctx, "get entry", id)
}

func (s *Service) load(ctx context.Context, op, id string) (*Entry, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repository.NewStoreError(op, id, err)
	}
	return e, nil
}
