// Package ranking orders visible entries for display.
package ranking

import (
	"slices"
	"strings"

	"github.com/rpggio/launchpad/internal/domain/entry"
)

// SortKey selects a listing order
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortAlphabetical SortKey = "alphabetical"
	SortTrending     SortKey = "trending"
)

// DefaultSort is used when no or an unknown sort key is supplied.
const DefaultSort = SortTrending

// ParseSortKey maps user input to a sort key, falling back to DefaultSort.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest
	case SortAlphabetical:
		return SortAlphabetical
	case SortTrending:
		return SortTrending
	default:
		return DefaultSort
	}
}

// EffectiveScore applies a boost multiplier to a base trending score.
// Negative bases count as zero.
func EffectiveScore(base, multiplier float64) float64 {
	if base < 0 {
		base = 0
	}
	return base * (1 + multiplier)
}

// Rank returns entries in key order without touching the input slice.
// multipliers maps entry id to active boost multiplier; missing ids are unboosted.
//
// Every order ends with created_at descending then id ascending, so equal
// inputs always produce the same output.
func Rank(entries []entry.Entry, multipliers map[string]float64, key SortKey) []entry.Entry {
	ranked := slices.Clone(entries)
	if ranked == nil {
		ranked = []entry.Entry{}
	}

	var primary func(a, b *entry.Entry) int
	switch key {
	case SortNewest:
		primary = func(a, b *entry.Entry) int { return 0 }
	case SortAlphabetical:
		primary = func(a, b *entry.Entry) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	default:
		primary = func(a, b *entry.Entry) int {
			sa := EffectiveScore(a.TrendingScore, multipliers[a.ID])
			sb := EffectiveScore(b.TrendingScore, multipliers[b.ID])
			switch {
			case sa > sb:
				return -1
			case sa < sb:
				return 1
			}
			return 0
		}
	}

	slices.SortStableFunc(ranked, func(a, b entry.Entry) int {
		if c := primary(&a, &b); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return ranked
}

// Scores returns the effective score of every entry, keyed by id.
func Scores(entries []entry.Entry, multipliers map[string]float64) map[string]float64 {
	scores := make(map[string]float64, len(entries))
	for _, e := range entries {
		scores[e.ID] = EffectiveScore(e.TrendingScore, multipliers[e.ID])
	}
	return scores
}
