package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/repository"
)

// ErrRateLimited indicates the identity exhausted its allowance for the window.
var ErrRateLimited = errors.New("too many requests, try again later")

// Counter counts prior actions for one identity key.
type Counter interface {
	Count(ctx context.Context, opts activity.CountOptions) (int, error)
}

// Policy bounds one action type. A Max of zero disables the limit.
// FailClosed blocks the action when the count cannot be read.
type Policy struct {
	Window     time.Duration `yaml:"window"`
	Max        int           `yaml:"max"`
	FailClosed bool          `yaml:"fail_closed"`
}

// DefaultPolicies returns the stock allowances: ten submissions and five
// contact messages per hour, both failing open.
func DefaultPolicies() map[activity.ActionType]Policy {
	return map[activity.ActionType]Policy{
		activity.TypeSubmission:     {Window: time.Hour, Max: 10},
		activity.TypeContactMessage: {Window: time.Hour, Max: 5},
	}
}

// Limiter answers sliding-window questions over the action log.
type Limiter struct {
	counter  Counter
	policies map[activity.ActionType]Policy
	logger   *slog.Logger
}

// NewLimiter creates a limiter. Nil policies use DefaultPolicies.
func NewLimiter(counter Counter, policies map[activity.ActionType]Policy, logger *slog.Logger) *Limiter {
	if policies == nil {
		policies = DefaultPolicies()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Limiter{counter: counter, policies: policies, logger: logger}
}

// IsLimited reports whether any of the identity's keys already has maxCount or
// more actions of this type in the trailing window ending at now.
func (l *Limiter) IsLimited(ctx context.Context, action activity.ActionType, identity Identity, window time.Duration, maxCount int, now time.Time) (bool, error) {
	if maxCount <= 0 {
		return false, nil
	}
	since := now.Add(-window)
	for _, key := range identity.Keys() {
		count, err := l.counter.Count(ctx, activity.CountOptions{
			Type:  action,
			Field: key.Field,
			Value: key.Value,
			Since: since,
			Until: now,
		})
		if err != nil {
			return false, repository.NewStoreError(fmt.Sprintf("count %s", action), "", err)
		}
		if count >= maxCount {
			return true, nil
		}
	}
	return false, nil
}

// Allow applies the configured policy for action and returns ErrRateLimited
// when the identity is over its allowance.
func (l *Limiter) Allow(ctx context.Context, action activity.ActionType, identity Identity, now time.Time) error {
	policy, ok := l.policies[action]
	if !ok {
		return nil
	}

	limited, err := l.IsLimited(ctx, action, identity, policy.Window, policy.Max, now)
	if err != nil {
		if policy.FailClosed {
			l.logger.Error("rate limit check failed, blocking", "action", action, "error", err)
			return err
		}
		l.logger.Warn("rate limit check failed, allowing", "action", action, "error", err)
		return nil
	}
	if limited {
		l.logger.Info("rate limited", "action", action, "user_id", identity.UserID)
		return ErrRateLimited
	}
	return nil
}

// Policy returns the configured policy for action.
func (l *Limiter) Policy(action activity.ActionType) (Policy, bool) {
	p, ok := l.policies[action]
	return p, ok
}
