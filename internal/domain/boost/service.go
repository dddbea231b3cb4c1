package boost

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/repository"
)

// Service manages boost slots and featured tokens.
//
// Every method takes the caller's now and uses it for all comparisons in the
// call. Expiry is purely a function of the stored end time, so nothing is
// ever swept or cached.
type Service struct {
	boosts    Repository
	featured  FeaturedRepository
	entries   EntryLookup
	inventory Inventory
	logger    *slog.Logger
}

// NewService creates a new boost service. Zero inventory fields take their defaults.
func NewService(boosts Repository, featured FeaturedRepository, entries EntryLookup, inventory Inventory, logger *slog.Logger) *Service {
	def := DefaultInventory()
	if inventory.Size <= 0 {
		inventory.Size = def.Size
	}
	if inventory.Duration <= 0 {
		inventory.Duration = def.Duration
	}
	if inventory.Multiplier <= 0 {
		inventory.Multiplier = def.Multiplier
	}
	if inventory.FeaturedDuration <= 0 {
		inventory.FeaturedDuration = def.FeaturedDuration
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		boosts:    boosts,
		featured:  featured,
		entries:   entries,
		inventory: inventory,
		logger:    logger,
	}
}

// GrantRequest describes a boost. Zero Duration and Multiplier use the inventory defaults.
type GrantRequest struct {
	EntryID    string
	GrantedBy  string
	Duration   time.Duration
	Multiplier float64
}

// CountActive returns the number of boosts running at now.
func (s *Service) CountActive(ctx context.Context, now time.Time) (int, error) {
	n, err := s.boosts.CountActive(ctx, now)
	if err != nil {
		return 0, repository.NewStoreError("count active boosts", "", err)
	}
	return n, nil
}

// HasActive reports whether entryID has a boost running at now.
func (s *Service) HasActive(ctx context.Context, entryID string, now time.Time) (bool, error) {
	ok, err := s.boosts.HasActive(ctx, entryID, now)
	if err != nil {
		return false, repository.NewStoreError("check active boost", entryID, err)
	}
	return ok, nil
}

// ActiveMultipliers maps each boosted entry to its multiplier at now.
func (s *Service) ActiveMultipliers(ctx context.Context, now time.Time) (map[string]float64, error) {
	active, err := s.boosts.ListActive(ctx, now)
	if err != nil {
		return nil, repository.NewStoreError("list active boosts", "", err)
	}
	multipliers := make(map[string]float64, len(active))
	for _, b := range active {
		if !b.Active(now) {
			continue
		}
		// A racing double grant can leave two rows for one entry; the larger wins.
		if current, ok := multipliers[b.EntryID]; !ok || b.Multiplier > current {
			multipliers[b.EntryID] = b.Multiplier
		}
	}
	return multipliers, nil
}

// Status reports slot usage at now.
func (s *Service) Status(ctx context.Context, now time.Time) (InventoryStatus, error) {
	active, err := s.CountActive(ctx, now)
	if err != nil {
		return InventoryStatus{}, err
	}
	available := s.inventory.Size - active
	if available < 0 {
		available = 0
	}
	return InventoryStatus{Active: active, Capacity: s.inventory.Size, Available: available}, nil
}

// Grant starts a boost at now.
//
// The capacity check and the insert are separate store calls. Two grants
// racing for the last slot can both succeed, leaving the inventory one over
// until the earliest boost expires.
func (s *Service) Grant(ctx context.Context, req GrantRequest, now time.Time) (*Boost, error) {
	if strings.TrimSpace(req.EntryID) == "" || req.Duration < 0 || req.Multiplier < 0 {
		return nil, ErrInvalidInput
	}
	duration := req.Duration
	if duration == 0 {
		duration = s.inventory.Duration
	}
	multiplier := req.Multiplier
	if multiplier == 0 {
		multiplier = s.inventory.Multiplier
	}

	active, err := s.CountActive(ctx, now)
	if err != nil {
		return nil, err
	}
	if active >= s.inventory.Size {
		return nil, ErrCapacityExceeded
	}

	boosted, err := s.HasActive(ctx, req.EntryID, now)
	if err != nil {
		return nil, err
	}
	if boosted {
		return nil, ErrAlreadyBoosted
	}

	b := &Boost{
		ID:         uuid.NewString(),
		EntryID:    req.EntryID,
		GrantedBy:  req.GrantedBy,
		StartsAt:   now,
		EndsAt:     now.Add(duration),
		Multiplier: multiplier,
	}
	if err := s.boosts.Create(ctx, b); err != nil {
		return nil, repository.NewStoreError("grant boost", req.EntryID, err)
	}

	s.logger.Info("boost granted", "entry_id", b.EntryID, "ends_at", b.EndsAt, "multiplier", b.Multiplier, "slots_used", active+1)
	return b, nil
}

// Spend is the promotional-button path: the entry's elevated owner, or an
// administrator, spends a slot with the default duration and multiplier.
func (s *Service) Spend(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*Boost, error) {
	if !viewer.Authenticated() {
		return nil, entry.ErrUnauthorized
	}
	e, err := s.entries.Lookup(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !viewer.Admin && !(viewer.Owns(e) && viewer.Elevated) {
		return nil, entry.ErrUnauthorized
	}
	if e.Status != entry.StatusApproved {
		return nil, ErrNotPromotable
	}
	return s.Grant(ctx, GrantRequest{EntryID: e.ID, GrantedBy: viewer.ID}, now)
}

// UseFeaturedToken spends the owner's featured token for the calendar month of now.
func (s *Service) UseFeaturedToken(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*FeaturedGrant, error) {
	if !viewer.Authenticated() || !viewer.Elevated {
		return nil, entry.ErrUnauthorized
	}
	e, err := s.entries.Lookup(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !viewer.Owns(e) {
		return nil, entry.ErrUnauthorized
	}
	if e.Status != entry.StatusApproved {
		return nil, ErrNotPromotable
	}

	start, end, month := MonthWindow(now)
	used, err := s.featured.CountForOwner(ctx, viewer.ID, start, end)
	if err != nil {
		return nil, repository.NewStoreError("count featured grants", e.ID, err)
	}
	if used > 0 {
		return nil, ErrAlreadyUsedThisMonth
	}

	g := &FeaturedGrant{
		ID:        uuid.NewString(),
		OwnerID:   viewer.ID,
		EntryID:   e.ID,
		Month:     month,
		GrantedAt: now,
		ExpiresAt: now.Add(s.inventory.FeaturedDuration),
	}
	if err := s.featured.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyUsedThisMonth
		}
		return nil, repository.NewStoreError("use featured token", e.ID, err)
	}

	s.logger.Info("featured token used", "owner_id", g.OwnerID, "entry_id", g.EntryID, "month", g.Month)
	return g, nil
}

// ActiveFeatured returns the set of entries with a featured placement running at now.
func (s *Service) ActiveFeatured(ctx context.Context, now time.Time) (map[string]bool, error) {
	grants, err := s.featured.ListActive(ctx, now)
	if err != nil {
		return nil, repository.NewStoreError("list featured grants", "", err)
	}
	featured := make(map[string]bool, len(grants))
	for _, g := range grants {
		if g.Active(now) {
			featured[g.EntryID] = true
		}
	}
	return featured, nil
}

// Inventory returns the effective slot configuration.
func (s *Service) Inventory() Inventory {
	return s.inventory
}
