package catalog

import (
	"context"
	"time"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	"github.com/rpggio/launchpad/internal/metrics"
)

// Boost spends a boost slot on an entry.
func (s *Service) Boost(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.Boost, error) {
	b, err := s.promotions.Spend(ctx, viewer, entryID, now)
	if err != nil {
		return nil, s.fail("boost", entryID, err)
	}
	s.ok("boost")
	return b, nil
}

// Feature spends the owner's monthly featured token on an entry.
func (s *Service) Feature(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.FeaturedGrant, error) {
	g, err := s.promotions.UseFeaturedToken(ctx, viewer, entryID, now)
	if err != nil {
		return nil, s.fail("feature", entryID, err)
	}
	s.ok("feature")
	return g, nil
}

// Inventory reports boost slot usage at now.
func (s *Service) Inventory(ctx context.Context, now time.Time) (boost.InventoryStatus, error) {
	status, err := s.promotions.Status(ctx, now)
	if err != nil {
		return boost.InventoryStatus{}, s.fail("inventory", "", err)
	}
	metrics.RecordBoostSlots(status.Active)
	return status, nil
}

// Moderate applies an administrator's decision and reports the views to refresh.
func (s *Service) Moderate(ctx context.Context, viewer entry.Viewer, req entry.TransitionRequest, now time.Time) (*entry.TransitionResult, error) {
	res, err := s.entries.Transition(ctx, viewer, req, now)
	if err != nil {
		return nil, s.fail("moderate", req.ID, err)
	}
	s.ok("moderate")
	return res, nil
}

// Queue lists entries awaiting moderation.
func (s *Service) Queue(ctx context.Context, viewer entry.Viewer) ([]entry.Entry, error) {
	pending, err := s.entries.Queue(ctx, viewer)
	if err != nil {
		return nil, s.fail("queue", "", err)
	}
	return pending, nil
}

// Edit applies an owner edit.
func (s *Service) Edit(ctx context.Context, viewer entry.Viewer, req entry.UpdateRequest, now time.Time) (*entry.Entry, error) {
	e, err := s.entries.Update(ctx, viewer, req, now)
	if err != nil {
		return nil, s.fail("edit", req.ID, err)
	}
	s.ok("edit")
	return e, nil
}

// CreatorStats returns an owner's reputation snapshot.
func (s *Service) CreatorStats(ctx context.Context, ownerID string) (reputation.Stats, error) {
	if ownerID == "" {
		return reputation.Stats{}, ErrInvalidInput
	}
	stats, err := s.reputation.ForOwner(ctx, ownerID)
	if err != nil {
		return reputation.Stats{}, s.fail("creator stats", "", err)
	}
	return stats, nil
}
