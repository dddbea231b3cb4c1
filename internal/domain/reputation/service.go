package reputation

import (
	"context"
	"log/slog"

	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/repository"
)

// EntryLister reads entries from the store.
type EntryLister interface {
	List(ctx context.Context, opts entry.ListOptions) ([]entry.Entry, error)
}

// Service computes reputation snapshots from stored entries.
type Service struct {
	entries    EntryLister
	thresholds Thresholds
	logger     *slog.Logger
}

// NewService creates a new reputation service.
func NewService(entries EntryLister, th Thresholds, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{entries: entries, thresholds: th.withDefaults(), logger: logger}
}

// Thresholds returns the effective thresholds.
func (s *Service) Thresholds() Thresholds {
	return s.thresholds
}

// ForOwner returns the owner's current snapshot.
func (s *Service) ForOwner(ctx context.Context, ownerID string) (Stats, error) {
	entries, err := s.entries.List(ctx, entry.ListOptions{
		Statuses: []entry.Status{entry.StatusApproved},
		OwnerIDs: []string{ownerID},
	})
	if err != nil {
		return Stats{}, repository.NewStoreError("load owner entries", "", err)
	}
	return Compute(ownerID, entries, s.thresholds), nil
}

// Batch returns snapshots for every listed owner. Owners without approved
// entries get a zero snapshot.
func (s *Service) Batch(ctx context.Context, ownerIDs []string) (map[string]Stats, error) {
	out := make(map[string]Stats, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	entries, err := s.entries.List(ctx, entry.ListOptions{
		Statuses: []entry.Status{entry.StatusApproved},
		OwnerIDs: ownerIDs,
	})
	if err != nil {
		return nil, repository.NewStoreError("load owner entries", "", err)
	}
	batch := ComputeBatch(entries, s.thresholds)
	for _, id := range ownerIDs {
		if st, ok := batch[id]; ok {
			out[id] = st
		} else {
			out[id] = Stats{OwnerID: id}
		}
	}
	s.logger.Debug("reputation batch computed", "owners", len(ownerIDs), "entries", len(entries))
	return out, nil
}
