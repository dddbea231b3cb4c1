package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rpggio/launchpad/internal/domain/activity"
)

// Identity is everything known about who is acting. Any field may be empty.
type Identity struct {
	UserID    string
	IPHash    string
	UserAgent string
}

// Key is one identity value an action log can be counted by
type Key struct {
	Field activity.KeyField
	Value string
}

// Keys returns the identity keys to count, in resolution order.
//
// The authenticated user id is the primary key. The network fingerprint and
// the client agent are fallbacks and only apply when there is no user id.
func (id Identity) Keys() []Key {
	if id.UserID != "" {
		return []Key{{Field: activity.KeyUserID, Value: id.UserID}}
	}
	var keys []Key
	if id.IPHash != "" {
		keys = append(keys, Key{Field: activity.KeyIPHash, Value: id.IPHash})
	}
	if ua := strings.TrimSpace(id.UserAgent); ua != "" {
		keys = append(keys, Key{Field: activity.KeyUserAgent, Value: ua})
	}
	return keys
}

// Fingerprint returns a salted one-way hash of a network origin. The raw
// address is never stored. Empty input yields an empty fingerprint.
func Fingerprint(salt, origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(salt + "|" + origin))
	return hex.EncodeToString(sum[:])
}

// Honeypot reports whether a hidden form field was filled in.
func Honeypot(value string) bool {
	return strings.TrimSpace(value) != ""
}
