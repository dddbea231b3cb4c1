package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/ranking"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolset struct {
	catalog Catalog
	now     func() time.Time
}

func registerTools(server *sdkmcp.Server, t *toolset) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_entries",
		Description: "List approved public entries in ranked order, plus the caller's own entries",
	}, t.listEntries)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_entry",
		Description: "Get one entry card by id or slug",
	}, t.getEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_entry",
		Description: "Submit a new entry for moderation",
	}, t.submitEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "moderation_queue",
		Description: "List pending entries, oldest first (admin only)",
	}, t.moderationQueue)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "moderate_entry",
		Description: "Approve or reject an entry (admin only)",
	}, t.moderateEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "boost_entry",
		Description: "Spend a boost slot on an entry (pro owner or admin)",
	}, t.boostEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "feature_entry",
		Description: "Spend this month's featured token on an entry (pro owner)",
	}, t.featureEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "boost_inventory",
		Description: "Report how many boost slots are in use",
	}, t.boostInventory)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "creator_stats",
		Description: "Get a creator's reputation snapshot and badges",
	}, t.creatorStats)
}

func (t *toolset) listEntries(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListEntriesParams) (*sdkmcp.CallToolResult, any, error) {
	listing := t.catalog.List(ctx, getViewer(ctx), catalog.ListOptions{
		Sort:   ranking.ParseSortKey(in.Sort),
		Limit:  in.Limit,
		Offset: in.Offset,
	}, t.now())
	return jsonResult(listing)
}

func (t *toolset) getEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetEntryParams) (*sdkmcp.CallToolResult, any, error) {
	card, err := t.catalog.Detail(ctx, getViewer(ctx), in.Ref, t.now())
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(card)
}

func (t *toolset) submitEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitEntryParams) (*sdkmcp.CallToolResult, any, error) {
	receipt, err := t.catalog.Submit(ctx, getViewer(ctx), catalog.SubmissionRequest{
		Entry: entry.SubmitRequest{
			Name:       in.Name,
			Tagline:    in.Tagline,
			URL:        in.URL,
			Visibility: entry.Visibility(in.Visibility),
		},
		Origin: catalog.Origin{UserAgent: getUserAgent(ctx)},
	}, t.now())
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(receipt)
}

func (t *toolset) moderationQueue(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	pending, err := t.catalog.Queue(ctx, getViewer(ctx))
	if err != nil {
		return nil, nil, MapError(err)
	}
	if pending == nil {
		pending = []entry.Entry{}
	}
	return jsonResult(pending)
}

func (t *toolset) moderateEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in ModerateEntryParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.catalog.Moderate(ctx, getViewer(ctx), entry.TransitionRequest{
		ID:     in.ID,
		To:     entry.Status(in.To),
		Reason: in.Reason,
	}, t.now())
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(res)
}

func (t *toolset) boostEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntryIDParams) (*sdkmcp.CallToolResult, any, error) {
	b, err := t.catalog.Boost(ctx, getViewer(ctx), in.ID, t.now())
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(b)
}

func (t *toolset) featureEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntryIDParams) (*sdkmcp.CallToolResult, any, error) {
	g, err := t.catalog.Feature(ctx, getViewer(ctx), in.ID, t.now())
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(g)
}

func (t *toolset) boostInventory(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	status, err := t.catalog.Inventory(ctx, t.now())
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(status)
}

func (t *toolset) creatorStats(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreatorStatsParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.catalog.CreatorStats(ctx, in.OwnerID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	badges := reputation.Badges(stats)
	if badges == nil {
		badges = []string{}
	}
	return jsonResult(CreatorStatsResult{
		OwnerID:       stats.OwnerID,
		TotalVotes:    stats.TotalVotes,
		ApprovedCount: stats.ApprovedCount,
		HighVoteCount: stats.HighVoteCount,
		IsRising:      stats.IsRising,
		Badges:        badges,
	})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
