package catalog

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
	"github.com/rpggio/launchpad/internal/metrics"
	"github.com/rpggio/launchpad/internal/repository"
)

const maxMessageLength = 2000

const (
	ReceiptPending  = "pending"
	ReceiptReceived = "received"
)

// Receipt acknowledges a throttled write. A honeypot hit gets a receipt of
// the same shape for an action that never happened.
type Receipt struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

// SubmissionRequest is a new entry from the submission form.
type SubmissionRequest struct {
	Entry    entry.SubmitRequest
	Honeypot string
	Origin   Origin
}

// ContactRequest is a message to the operators, optionally about one entry.
type ContactRequest struct {
	EntryRef string
	Email    string
	Message  string
	Honeypot string
	Origin   Origin
}

type contactDetails struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

// Submit creates a pending entry for the viewer.
//
// Order matters: the honeypot is checked before anything is counted or
// written, the submission allowance is keyed by the authenticated user, and
// the action is logged once the entry exists.
func (s *Service) Submit(ctx context.Context, viewer entry.Viewer, req SubmissionRequest, now time.Time) (*Receipt, error) {
	const action = "submit"

	if ratelimit.Honeypot(req.Honeypot) {
		s.logger.Info("honeypot tripped", "action", action)
		metrics.RecordDecision(action, "honeypot")
		return &Receipt{ID: uuid.NewString(), Status: ReceiptPending, ReceivedAt: now}, nil
	}
	if !viewer.Authenticated() {
		return nil, s.fail(action, "", entry.ErrUnauthorized)
	}

	if err := s.limiter.Allow(ctx, activity.TypeSubmission, ratelimit.Identity{UserID: viewer.ID}, now); err != nil {
		return nil, s.fail(action, "", err)
	}

	e, err := s.entries.Submit(ctx, viewer, req.Entry, now)
	if err != nil {
		return nil, s.fail(action, "", err)
	}

	userID, entryID := viewer.ID, e.ID
	record := &activity.Action{
		Type:      activity.TypeSubmission,
		UserID:    &userID,
		IPHash:    optional(req.Origin.IPHash),
		UserAgent: optional(req.Origin.UserAgent),
		EntryID:   &entryID,
		CreatedAt: now,
	}
	if err := s.actions.Log(ctx, record); err != nil {
		// The entry is stored, so the receipt stands.
		s.logger.Error("store failure", "action", "log submission", "entry_id", e.ID,
			"error", repository.NewStoreError("log submission", e.ID, err))
	}

	s.ok(action)
	return &Receipt{ID: e.ID, Status: ReceiptPending, ReceivedAt: now}, nil
}

// Contact stores a message for the operators. Anonymous callers are allowed
// and are throttled by network fingerprint and client agent instead.
func (s *Service) Contact(ctx context.Context, viewer entry.Viewer, req ContactRequest, now time.Time) (*Receipt, error) {
	const action = "contact"

	if ratelimit.Honeypot(req.Honeypot) {
		s.logger.Info("honeypot tripped", "action", action)
		metrics.RecordDecision(action, "honeypot")
		return &Receipt{ID: uuid.NewString(), Status: ReceiptReceived, ReceivedAt: now}, nil
	}

	details, err := contactPayload(req)
	if err != nil {
		return nil, s.fail(action, req.EntryRef, err)
	}

	identity := ratelimit.Identity{UserID: viewer.ID, IPHash: req.Origin.IPHash, UserAgent: req.Origin.UserAgent}
	if err := s.limiter.Allow(ctx, activity.TypeContactMessage, identity, now); err != nil {
		return nil, s.fail(action, req.EntryRef, err)
	}

	var entryID *string
	if ref := strings.TrimSpace(req.EntryRef); ref != "" {
		e, err := s.entries.Get(ctx, viewer, ref)
		if err != nil {
			return nil, s.fail(action, ref, err)
		}
		entryID = &e.ID
	}

	record := &activity.Action{
		Type:      activity.TypeContactMessage,
		UserID:    optional(viewer.ID),
		IPHash:    optional(req.Origin.IPHash),
		UserAgent: optional(req.Origin.UserAgent),
		EntryID:   entryID,
		Details:   details,
		CreatedAt: now,
	}
	if err := s.actions.Log(ctx, record); err != nil {
		return nil, s.fail(action, req.EntryRef, repository.NewStoreError("log contact", req.EntryRef, err))
	}

	s.ok(action)
	return &Receipt{ID: uuid.NewString(), Status: ReceiptReceived, ReceivedAt: now}, nil
}

func contactPayload(req ContactRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" || len(message) > maxMessageLength {
		return "", ErrInvalidInput
	}
	email := strings.TrimSpace(req.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return "", ErrInvalidInput
		}
	}
	data, err := json.Marshal(contactDetails{Email: email, Message: message})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
