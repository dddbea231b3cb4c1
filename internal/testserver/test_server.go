package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/profile"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	"github.com/rpggio/launchpad/internal/mcp"
	"github.com/rpggio/launchpad/internal/sqlite"
	"github.com/rpggio/launchpad/internal/transport"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-secret"

// Clock is a settable time source shared by every layer of the test server.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Clock    *Clock
	Catalog  *catalog.Service
	Profiles *profile.Service
	Entries  *sqlite.EntryRepository
	Verifier *transport.TokenVerifier
}

// New starts the HTTP API over a fresh in-memory database.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clock := &Clock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	entryRepo := sqlite.NewEntryRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	boostRepo := sqlite.NewBoostRepository(db)
	featuredRepo := sqlite.NewFeaturedRepository(db)

	entrySvc := entry.NewService(entryRepo, nil)
	profileSvc := profile.NewService(profileRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	boostSvc := boost.NewService(boostRepo, featuredRepo, entrySvc, boost.DefaultInventory(), nil)
	reputationSvc := reputation.NewService(entryRepo, reputation.DefaultThresholds(), nil)
	limiter := ratelimit.NewLimiter(activityRepo, nil, nil)

	catalogSvc := catalog.NewService(entrySvc, boostSvc, limiter, activitySvc, reputationSvc, nil)

	verifier := transport.NewTokenVerifier(jwtSecret)
	mcpServer := mcp.NewServer(mcp.Config{
		Catalog:       catalogSvc,
		Verifier:      verifier,
		Viewers:       profileSvc,
		TransportMode: "http",
		Now:           clock.Now,
	})

	router := transport.NewServer(transport.Options{
		Catalog:         catalogSvc,
		Verifier:        verifier,
		Viewers:         profileSvc,
		FingerprintSalt: "test-salt",
		MCP:             mcp.NewHTTPHandler(mcpServer),
		Now:             clock.Now,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Clock:    clock,
		Catalog:  catalogSvc,
		Profiles: profileSvc,
		Entries:  entryRepo,
		Verifier: verifier,
	}
}

// AddUser stores a profile and returns a bearer token for it.
func (ts *TestServer) AddUser(t *testing.T, id string, tier profile.Tier, role profile.Role) string {
	t.Helper()

	_, err := ts.Profiles.Upsert(context.Background(), profile.UpsertRequest{ID: id, DisplayName: id, Tier: tier, Role: role})
	require.NoError(t, err)

	token, err := ts.Verifier.Sign(id, time.Hour)
	require.NoError(t, err)
	return token
}

// Do sends a JSON request and returns the status and raw body.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// DoJSON is Do that also decodes the response into out.
func (ts *TestServer) DoJSON(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	status, data := ts.Do(t, method, path, token, body)
	if out != nil && len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return status
}
