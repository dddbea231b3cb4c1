package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Catalog defines catalog operations needed by MCP.
type Catalog interface {
	List(ctx context.Context, viewer entry.Viewer, opts catalog.ListOptions, now time.Time) catalog.Listing
	Detail(ctx context.Context, viewer entry.Viewer, ref string, now time.Time) (*catalog.Card, error)
	Submit(ctx context.Context, viewer entry.Viewer, req catalog.SubmissionRequest, now time.Time) (*catalog.Receipt, error)
	Moderate(ctx context.Context, viewer entry.Viewer, req entry.TransitionRequest, now time.Time) (*entry.TransitionResult, error)
	Queue(ctx context.Context, viewer entry.Viewer) ([]entry.Entry, error)
	Boost(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.Boost, error)
	Feature(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.FeaturedGrant, error)
	Inventory(ctx context.Context, now time.Time) (boost.InventoryStatus, error)
	CreatorStats(ctx context.Context, ownerID string) (reputation.Stats, error)
}

// Config contains server configuration.
type Config struct {
	Catalog  Catalog
	Verifier TokenVerifier
	Viewers  ViewerResolver
	// TransportMode is "stdio" or "http".
	TransportMode string
	// LocalViewer is the caller for every stdio request.
	LocalViewer entry.Viewer
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "launchpad",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Stdio has no headers, so the caller is whoever started the process.
	viewerMiddleware := headerViewerMiddleware(cfg.Verifier, cfg.Viewers)
	if cfg.TransportMode == "stdio" {
		viewerMiddleware = fixedViewerMiddleware(cfg.LocalViewer)
	}
	server.AddReceivingMiddleware(viewerMiddleware, trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, &toolset{catalog: cfg.Catalog, now: now})

	return server
}
