package profile

import (
	"time"

	"github.com/rpggio/launchpad/internal/domain/entry"
)

// Tier is the creator's plan level
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// Role is the creator's staff capability
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Profile represents a creator account as known to the catalog
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Tier        Tier      `json:"tier"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Viewer derives the request identity for this profile.
func (p *Profile) Viewer() entry.Viewer {
	return entry.Viewer{
		ID:       p.ID,
		Admin:    p.Role == RoleAdmin,
		Elevated: p.Tier == TierPro,
	}
}
