package entry

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	maxNameLength    = 80
	maxTaglineLength = 160
)

// ValidateSubmitInput validates fields required to submit an entry.
func ValidateSubmitInput(req SubmitRequest) error {
	if err := validateName(req.Name); err != nil {
		return err
	}
	if len(req.Tagline) > maxTaglineLength {
		return ErrInvalidInput
	}
	if err := validateURL(req.URL); err != nil {
		return err
	}
	return validateVisibility(req.Visibility)
}

// ValidateUpdateInput validates the fields present in an edit.
func ValidateUpdateInput(req UpdateRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return ErrInvalidInput
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return err
		}
	}
	if req.Tagline != nil && len(*req.Tagline) > maxTaglineLength {
		return ErrInvalidInput
	}
	if req.URL != nil {
		if err := validateURL(*req.URL); err != nil {
			return err
		}
	}
	if req.Visibility != nil {
		return validateVisibility(*req.Visibility)
	}
	return nil
}

// ValidateTransition validates a requested moderation target.
// Any state may move to approved or rejected; nothing moves back to pending.
func ValidateTransition(to Status) error {
	switch to {
	case StatusApproved, StatusRejected:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// CoerceVisibility honors unlisted only for elevated owners.
func CoerceVisibility(requested Visibility, owner Viewer) Visibility {
	if requested == VisibilityUnlisted && owner.Elevated {
		return VisibilityUnlisted
	}
	return VisibilityPublic
}

// Slugify derives a URL-safe slug from an entry name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return ErrInvalidInput
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ErrInvalidInput
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidInput
	}
	return nil
}

func validateVisibility(v Visibility) error {
	switch v {
	case "", VisibilityPublic, VisibilityUnlisted:
		return nil
	default:
		return ErrInvalidInput
	}
}
