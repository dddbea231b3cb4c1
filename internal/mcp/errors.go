package mcp

import (
	"fmt"
	"strings"

	"github.com/rpggio/launchpad/internal/domain/catalog"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

var recoveryHints = map[string]string{
	"unauthorized":            "Check the caller's role and that they own the entry",
	"not_found":               "Check the id or slug",
	"invalid_transition":      "Use approved or rejected",
	"capacity_exceeded":       "Call boost_inventory and retry after a slot frees up",
	"already_boosted":         "Wait for the running boost to end",
	"not_promotable":          "Wait until the entry is approved",
	"already_used_this_month": "Try again next month",
	"rate_limited":            "Wait before submitting again",
	"store_error":             "Retry later",
}

// MapError maps domain errors to tool errors with stable codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	outcome := catalog.Outcome(err)
	message := err.Error()
	if outcome == "store_error" || outcome == "error" {
		message = "the catalog could not complete the request"
	}
	return &APIError{
		Code:         strings.ToUpper(outcome),
		Message:      message,
		RecoveryHint: recoveryHints[outcome],
	}
}
