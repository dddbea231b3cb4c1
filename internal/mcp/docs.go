package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `launchpad is a catalog of submitted projects ("entries") with moderation, promotion and ranking.

Core concepts:
- Entry: a submitted project. Status is pending, approved or rejected. Visibility is public or unlisted.
- Listing: approved public entries ranked by sort key (trending, newest, alphabetical), plus your own entries.
- Detail: any approved entry resolves by id or slug, including unlisted ones. Pending and rejected entries are visible to their owner and admins only.
- Boost: a paid slot that lifts an entry's trending score for a limited time. Slots are shared and capped.
- Featured token: one featured placement per pro creator per calendar month (UTC).

Tools:
1) Browse with list_entries and get_entry.
2) Submit with submit_entry. New entries wait in moderation and are rate limited per creator.
3) Admins review with moderation_queue and moderate_entry.
4) Promote with boost_entry, feature_entry, and check boost_inventory first.
5) creator_stats reports a creator's reputation.

Docs:
- launchpad://docs/index
- launchpad://docs/ranking
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "launchpad://docs/index",
		Name:        "docs_index",
		Title:       "launchpad docs index",
		Description: "Entry point: what the catalog stores and which tool does what.",
		Content: `# launchpad: Agent Docs Index

## Quick start

1. ` + "`list_entries`" + ` to see the ranked listing. Use ` + "`limit`" + ` and ` + "`offset`" + ` to page.
2. ` + "`get_entry`" + ` with an id or slug for one card.
3. ` + "`submit_entry`" + ` to add a project. It appears in listings only after approval.

## Errors

Tool errors carry a stable code:

- ` + "`UNAUTHORIZED`" + `: the caller lacks the role or ownership the action needs.
- ` + "`NOT_FOUND`" + `: the entry does not exist or is not visible to the caller.
- ` + "`CAPACITY_EXCEEDED`" + `: every boost slot is in use. Check ` + "`boost_inventory`" + ` and retry later.
- ` + "`ALREADY_BOOSTED`" + `: the entry has a running boost.
- ` + "`ALREADY_USED_THIS_MONTH`" + `: the featured token is spent until the next UTC month.
- ` + "`RATE_LIMITED`" + `: too many submissions in the last hour.
- ` + "`STORE_ERROR`" + `: the store failed. Nothing was written; retry later.

## Docs

- ` + "`launchpad://docs/ranking`" + `: how ordering and boosts work.
`,
	},
	{
		URI:         "launchpad://docs/ranking",
		Name:        "docs_ranking",
		Title:       "Ranking and promotion",
		Description: "Sort keys, tie-breaks, boost multipliers and reputation badges.",
		Content: `# Ranking and promotion

## Sort keys

- ` + "`trending`" + ` (default): effective score descending, then newest first, then id.
- ` + "`newest`" + `: creation time descending, then id.
- ` + "`alphabetical`" + `: case-insensitive name, then newest first, then id.

The order is total, so the same inputs always produce the same page.

## Boosts

Effective score is ` + "`trending_score * (1 + multiplier)`" + ` while a boost is running.
Negative base scores count as zero. A boost ends at its end time exactly; the slot frees up then.

## Reputation

Computed from approved entries only:

- total votes, approved count
- high-vote entries (at or above the highlight threshold)
- rising: enough total votes across enough approved entries

Cards show ` + "`rising`" + ` and ` + "`top-voted`" + ` badges derived from these numbers.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
