// Package catalog composes the entry, promotion, throttling and reputation
// services into the operations the listing pages and buttons call.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	"github.com/rpggio/launchpad/internal/metrics"
	"github.com/rpggio/launchpad/internal/repository"
)

// Entries is the entry lifecycle the catalog drives.
type Entries interface {
	Submit(ctx context.Context, viewer entry.Viewer, req entry.SubmitRequest, now time.Time) (*entry.Entry, error)
	Update(ctx context.Context, viewer entry.Viewer, req entry.UpdateRequest, now time.Time) (*entry.Entry, error)
	Transition(ctx context.Context, viewer entry.Viewer, req entry.TransitionRequest, now time.Time) (*entry.TransitionResult, error)
	Get(ctx context.Context, viewer entry.Viewer, ref string) (*entry.Entry, error)
	Visible(ctx context.Context, viewer entry.Viewer) ([]entry.Entry, error)
	Queue(ctx context.Context, viewer entry.Viewer) ([]entry.Entry, error)
}

// Promotions is the boost inventory and featured token ledger.
type Promotions interface {
	ActiveMultipliers(ctx context.Context, now time.Time) (map[string]float64, error)
	ActiveFeatured(ctx context.Context, now time.Time) (map[string]bool, error)
	Spend(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.Boost, error)
	UseFeaturedToken(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.FeaturedGrant, error)
	Status(ctx context.Context, now time.Time) (boost.InventoryStatus, error)
}

// Limiter gates throttled actions.
type Limiter interface {
	Allow(ctx context.Context, action activity.ActionType, identity ratelimit.Identity, now time.Time) error
}

// ActionLog records throttled actions.
type ActionLog interface {
	Log(ctx context.Context, action *activity.Action) error
}

// Reputation computes creator snapshots.
type Reputation interface {
	ForOwner(ctx context.Context, ownerID string) (reputation.Stats, error)
	Batch(ctx context.Context, ownerIDs []string) (map[string]reputation.Stats, error)
}

// ErrInvalidInput indicates a malformed catalog request.
var ErrInvalidInput = errors.New("invalid request")

// Service orchestrates catalog reads and writes.
type Service struct {
	entries    Entries
	promotions Promotions
	limiter    Limiter
	actions    ActionLog
	reputation Reputation
	logger     *slog.Logger
}

// NewService creates a new catalog service.
func NewService(entries Entries, promotions Promotions, limiter Limiter, actions ActionLog, rep Reputation, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		entries:    entries,
		promotions: promotions,
		limiter:    limiter,
		actions:    actions,
		reputation: rep,
		logger:     logger,
	}
}

// Origin is the network identity of a request. IPHash is already fingerprinted.
type Origin struct {
	IPHash    string
	UserAgent string
}

// fail logs store failures with context and counts the outcome. It returns err unchanged.
func (s *Service) fail(action, entryID string, err error) error {
	if repository.IsStoreError(err) {
		s.logger.Error("store failure", "action", action, "entry_id", entryID, "error", err)
	}
	metrics.RecordDecision(action, Outcome(err))
	return err
}

func (s *Service) ok(action string) {
	metrics.RecordDecision(action, "ok")
}

// Outcome names an error for metrics and audit logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entry.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, entry.ErrNotFound):
		return "not_found"
	case errors.Is(err, entry.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, entry.ErrInvalidInput), errors.Is(err, boost.ErrInvalidInput), errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, boost.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, boost.ErrAlreadyBoosted):
		return "already_boosted"
	case errors.Is(err, boost.ErrNotPromotable):
		return "not_promotable"
	case errors.Is(err, boost.ErrAlreadyUsedThisMonth):
		return "already_used_this_month"
	case errors.Is(err, ratelimit.ErrRateLimited):
		return "rate_limited"
	case repository.IsStoreError(err):
		return "store_error"
	default:
		return "error"
	}
}
