// Package reputation derives creator standing from approved entries.
package reputation

import "github.com/rpggio/launchpad/internal/domain/entry"

// Stats is a creator's reputation snapshot. It is never stored.
type Stats struct {
	OwnerID       string `json:"owner_id"`
	TotalVotes    int    `json:"total_votes"`
	ApprovedCount int    `json:"approved_count"`
	HighVoteCount int    `json:"high_vote_count"`
	IsRising      bool   `json:"is_rising"`
}

// Thresholds tune the reputation fold.
type Thresholds struct {
	HighVote      int `yaml:"high_vote"`
	RisingVotes   int `yaml:"rising_votes"`
	RisingEntries int `yaml:"rising_entries"`
}

// DefaultThresholds highlights entries at 10 votes and marks a creator rising
// at 5 total votes across at least 2 approved entries.
func DefaultThresholds() Thresholds {
	return Thresholds{HighVote: 10, RisingVotes: 5, RisingEntries: 2}
}

func (th Thresholds) withDefaults() Thresholds {
	def := DefaultThresholds()
	if th.HighVote <= 0 {
		th.HighVote = def.HighVote
	}
	if th.RisingVotes <= 0 {
		th.RisingVotes = def.RisingVotes
	}
	if th.RisingEntries <= 0 {
		th.RisingEntries = def.RisingEntries
	}
	return th
}

func (s *Stats) add(e entry.Entry, th Thresholds) {
	s.TotalVotes += e.VoteCount
	s.ApprovedCount++
	if e.VoteCount >= th.HighVote {
		s.HighVoteCount++
	}
}

func (s *Stats) finish(th Thresholds) {
	s.IsRising = s.TotalVotes >= th.RisingVotes && s.ApprovedCount >= th.RisingEntries
}

// Compute folds one owner's entries. Entries that are not approved are skipped.
func Compute(ownerID string, entries []entry.Entry, th Thresholds) Stats {
	th = th.withDefaults()
	stats := Stats{OwnerID: ownerID}
	for _, e := range entries {
		if e.Status != entry.StatusApproved {
			continue
		}
		stats.add(e, th)
	}
	stats.finish(th)
	return stats
}

// ComputeBatch groups entries by owner and folds each group in one pass.
// For any owner it agrees with Compute over that owner's entries.
func ComputeBatch(entries []entry.Entry, th Thresholds) map[string]Stats {
	th = th.withDefaults()
	byOwner := make(map[string]*Stats)
	for _, e := range entries {
		if e.Status != entry.StatusApproved {
			continue
		}
		s, ok := byOwner[e.OwnerID]
		if !ok {
			s = &Stats{OwnerID: e.OwnerID}
			byOwner[e.OwnerID] = s
		}
		s.add(e, th)
	}

	out := make(map[string]Stats, len(byOwner))
	for id, s := range byOwner {
		s.finish(th)
		out[id] = *s
	}
	return out
}

const (
	BadgeRising   = "rising"
	BadgeTopVoted = "top-voted"
)

// Badges returns the card labels earned by s.
func Badges(s Stats) []string {
	var badges []string
	if s.IsRising {
		badges = append(badges, BadgeRising)
	}
	if s.HighVoteCount > 0 {
		badges = append(badges, BadgeTopVoted)
	}
	return badges
}
