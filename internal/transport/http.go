package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	"github.com/rpggio/launchpad/internal/metrics"
)

// Catalog is the set of catalog operations served over HTTP.
type Catalog interface {
	List(ctx context.Context, viewer entry.Viewer, opts catalog.ListOptions, now time.Time) catalog.Listing
	Detail(ctx context.Context, viewer entry.Viewer, ref string, now time.Time) (*catalog.Card, error)
	Submit(ctx context.Context, viewer entry.Viewer, req catalog.SubmissionRequest, now time.Time) (*catalog.Receipt, error)
	Contact(ctx context.Context, viewer entry.Viewer, req catalog.ContactRequest, now time.Time) (*catalog.Receipt, error)
	Edit(ctx context.Context, viewer entry.Viewer, req entry.UpdateRequest, now time.Time) (*entry.Entry, error)
	Moderate(ctx context.Context, viewer entry.Viewer, req entry.TransitionRequest, now time.Time) (*entry.TransitionResult, error)
	Queue(ctx context.Context, viewer entry.Viewer) ([]entry.Entry, error)
	Boost(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.Boost, error)
	Feature(ctx context.Context, viewer entry.Viewer, entryID string, now time.Time) (*boost.FeaturedGrant, error)
	Inventory(ctx context.Context, now time.Time) (boost.InventoryStatus, error)
	CreatorStats(ctx context.Context, ownerID string) (reputation.Stats, error)
}

// Options configures the HTTP server.
type Options struct {
	Catalog         Catalog
	Verifier        *TokenVerifier
	Viewers         ViewerResolver
	FingerprintSalt string
	AllowedOrigins  []string
	Throttle        *Throttle
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Server wires HTTP handlers.
type Server struct {
	catalog Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	r := chi.NewRouter()
	r.Use(metrics.InstrumentHandler)
	r.Use(corsHandler(opts.AllowedOrigins))
	r.Use(OriginMiddleware(opts.FingerprintSalt))
	r.Use(ViewerMiddleware(opts.Verifier, opts.Viewers, logger))

	srv := &Server{catalog: opts.Catalog, logger: logger, now: now}

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if opts.Throttle != nil {
			r.Use(opts.Throttle.Handler)
		}

		r.Get("/entries", srv.handleList)
		r.Post("/entries", srv.handleSubmit)
		r.Get("/entries/{ref}", srv.handleDetail)
		r.Patch("/entries/{ref}", srv.handleEdit)
		r.Post("/entries/{ref}/approve", srv.handleApprove)
		r.Post("/entries/{ref}/reject", srv.handleReject)
		r.Post("/entries/{ref}/boost", srv.handleBoost)
		r.Post("/entries/{ref}/feature", srv.handleFeature)
		r.Get("/moderation/queue", srv.handleQueue)
		r.Get("/boosts", srv.handleInventory)
		r.Get("/creators/{id}/stats", srv.handleCreatorStats)
		r.Post("/contact", srv.handleContact)

		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
	})

	return r
}

func corsHandler(allowed []string) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"Mcp-Session-Id",
		},
		ExposedHeaders:   []string{"Mcp-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(allowed) == 0 || allowed[0] == "*" {
		options.AllowedOrigins = []string{"*"}
		options.AllowCredentials = false
	}
	return cors.Handler(options)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
