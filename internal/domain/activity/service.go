package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidInput indicates an action without a type.
var ErrInvalidInput = errors.New("invalid action input")

// Service handles action log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new action log service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Log records an action, stamping the current time if missing.
func (s *Service) Log(ctx context.Context, action *Action) error {
	if action == nil || action.Type == "" {
		return ErrInvalidInput
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Log(ctx, action); err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// Recent lists actions, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Action, error) {
	return s.repo.List(ctx, opts)
}
