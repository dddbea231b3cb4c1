package catalog

import (
	"context"
	"time"

	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/ranking"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	"github.com/rpggio/launchpad/internal/metrics"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Card is one entry as a listing or detail page renders it
type Card struct {
	Entry          entry.Entry      `json:"entry"`
	EffectiveScore float64          `json:"effective_score"`
	Boosted        bool             `json:"boosted"`
	Featured       bool             `json:"featured"`
	Creator        reputation.Stats `json:"creator"`
	Badges         []string         `json:"badges,omitempty"`
}

// Listing is one page of ranked cards.
// Degraded is set when the store failed and the page is empty as a result.
type Listing struct {
	Cards    []Card          `json:"cards"`
	Total    int             `json:"total"`
	Sort     ranking.SortKey `json:"sort"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Degraded bool            `json:"degraded,omitempty"`
}

// ListOptions selects the listing order and page.
type ListOptions struct {
	Sort   ranking.SortKey
	Limit  int
	Offset int
}

func (o ListOptions) normalize() ListOptions {
	o.Sort = ranking.ParseSortKey(string(o.Sort))
	if o.Limit <= 0 {
		o.Limit = defaultPageSize
	}
	if o.Limit > maxPageSize {
		o.Limit = maxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// List returns the viewer's enumerable listing, ranked and annotated.
// It never fails: a store error at any step yields an empty, degraded page.
func (s *Service) List(ctx context.Context, viewer entry.Viewer, opts ListOptions, now time.Time) Listing {
	opts = opts.normalize()
	empty := Listing{Cards: []Card{}, Sort: opts.Sort, Limit: opts.Limit, Offset: opts.Offset, Degraded: true}

	visible, err := s.entries.Visible(ctx, viewer)
	if err != nil {
		return s.degrade(empty, "list entries", err)
	}
	multipliers, err := s.promotions.ActiveMultipliers(ctx, now)
	if err != nil {
		return s.degrade(empty, "list boosts", err)
	}
	featured, err := s.promotions.ActiveFeatured(ctx, now)
	if err != nil {
		return s.degrade(empty, "list featured", err)
	}

	ranked := ranking.Rank(visible, multipliers, opts.Sort)
	total := len(ranked)
	page := paginate(ranked, opts.Offset, opts.Limit)

	stats, err := s.reputation.Batch(ctx, ownerIDs(page))
	if err != nil {
		return s.degrade(empty, "load reputation", err)
	}

	cards := make([]Card, 0, len(page))
	for _, e := range page {
		cards = append(cards, buildCard(e, multipliers, featured, stats[e.OwnerID]))
	}

	metrics.RecordListing(string(opts.Sort), false)
	return Listing{Cards: cards, Total: total, Sort: opts.Sort, Limit: opts.Limit, Offset: opts.Offset}
}

func (s *Service) degrade(empty Listing, step string, err error) Listing {
	s.logger.Error("listing degraded", "action", step, "error", err)
	metrics.RecordListing(string(empty.Sort), true)
	return empty
}

// Detail looks an entry up by id or slug. Reachable-by-link rules apply, so
// approved unlisted entries resolve for every viewer. Annotation failures
// leave the card unannotated rather than failing the page.
func (s *Service) Detail(ctx context.Context, viewer entry.Viewer, ref string, now time.Time) (*Card, error) {
	e, err := s.entries.Get(ctx, viewer, ref)
	if err != nil {
		return nil, s.fail("detail", ref, err)
	}

	multipliers, err := s.promotions.ActiveMultipliers(ctx, now)
	if err != nil {
		s.logger.Warn("detail without boosts", "entry_id", e.ID, "error", err)
		multipliers = nil
	}
	featured, err := s.promotions.ActiveFeatured(ctx, now)
	if err != nil {
		s.logger.Warn("detail without featured", "entry_id", e.ID, "error", err)
		featured = nil
	}
	stats, err := s.reputation.ForOwner(ctx, e.OwnerID)
	if err != nil {
		s.logger.Warn("detail without reputation", "entry_id", e.ID, "error", err)
		stats = reputation.Stats{OwnerID: e.OwnerID}
	}

	card := buildCard(*e, multipliers, featured, stats)
	return &card, nil
}

func buildCard(e entry.Entry, multipliers map[string]float64, featured map[string]bool, stats reputation.Stats) Card {
	mult, boosted := multipliers[e.ID]
	if stats.OwnerID == "" {
		stats.OwnerID = e.OwnerID
	}
	return Card{
		Entry:          e,
		EffectiveScore: ranking.EffectiveScore(e.TrendingScore, mult),
		Boosted:        boosted,
		Featured:       featured[e.ID],
		Creator:        stats,
		Badges:         reputation.Badges(stats),
	}
}

func paginate(entries []entry.Entry, offset, limit int) []entry.Entry {
	if offset >= len(entries) {
		return nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

func ownerIDs(entries []entry.Entry) []string {
	seen := make(map[string]bool, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !seen[e.OwnerID] {
			seen[e.OwnerID] = true
			ids = append(ids, e.OwnerID)
		}
	}
	return ids
}
