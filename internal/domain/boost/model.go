package boost

import "time"

// Boost is a time-bounded score lift on one entry
type Boost struct {
	ID         string    `json:"id"`
	EntryID    string    `json:"entry_id"`
	GrantedBy  string    `json:"granted_by,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Multiplier float64   `json:"multiplier"`
}

// Active reports whether the boost is still running at now.
func (b Boost) Active(now time.Time) bool {
	return b.EndsAt.After(now)
}

// FeaturedGrant records one use of an owner's monthly featured token
type FeaturedGrant struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	EntryID   string    `json:"entry_id"`
	Month     string    `json:"month"`
	GrantedAt time.Time `json:"granted_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the featured placement is still running at now.
func (g FeaturedGrant) Active(now time.Time) bool {
	return g.ExpiresAt.After(now)
}

// InventoryStatus summarizes slot usage at one instant
type InventoryStatus struct {
	Active    int `json:"active"`
	Capacity  int `json:"capacity"`
	Available int `json:"available"`
}

// Inventory configures the promotional slots.
type Inventory struct {
	Size             int           `yaml:"size"`
	Duration         time.Duration `yaml:"duration"`
	Multiplier       float64       `yaml:"multiplier"`
	FeaturedDuration time.Duration `yaml:"featured_duration"`
}

// DefaultInventory is five concurrent 24h boosts at +50%, and 24h featured placements.
func DefaultInventory() Inventory {
	return Inventory{
		Size:             5,
		Duration:         24 * time.Hour,
		Multiplier:       0.5,
		FeaturedDuration: 24 * time.Hour,
	}
}

// MonthWindow returns the UTC calendar month containing t as [start, end) and its key.
func MonthWindow(t time.Time) (start, end time.Time, key string) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end, start.Format("2006-01")
}
