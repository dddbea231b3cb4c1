package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/repository"
)

// Service handles profile operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// UpsertRequest defines profile inputs.
type UpsertRequest struct {
	ID          string
	DisplayName string
	Tier        Tier
	Role        Role
}

// Upsert creates or replaces a profile.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*Profile, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}

	tier := req.Tier
	if tier == "" {
		tier = TierFree
	}
	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if tier != TierFree && tier != TierPro {
		return nil, ErrInvalidInput
	}
	if role != RoleMember && role != RoleAdmin {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	p := &Profile{
		ID:          req.ID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Tier:        tier,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upserting profile: %w", err)
	}
	return p, nil
}

// Get fetches a profile by ID.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// ResolveViewer maps an authenticated user id to a viewer with its capabilities.
// An empty id is anonymous. Unknown ids are authenticated without privileges,
// and so is any id whose profile cannot be read.
func (s *Service) ResolveViewer(ctx context.Context, userID string) entry.Viewer {
	if userID == "" {
		return entry.Anonymous()
	}

	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("resolving viewer", "user_id", userID, "error", err)
		}
		return entry.Viewer{ID: userID}
	}
	return p.Viewer()
}
