package mcp

import (
	"context"
	"strings"

	"github.com/rpggio/launchpad/internal/domain/entry"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const (
	viewerKey contextKey = iota
	userAgentKey
)

// getViewer extracts the caller from context. Missing means anonymous.
func getViewer(ctx context.Context) entry.Viewer {
	v, _ := ctx.Value(viewerKey).(entry.Viewer)
	return v
}

func getUserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey).(string)
	return v
}

// TokenVerifier returns the user id a bearer token was issued for.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// ViewerResolver maps a user id to a viewer with capabilities.
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, userID string) entry.Viewer
}

// headerViewerMiddleware resolves the caller from the Authorization header.
// Requests without a valid token proceed anonymously.
func headerViewerMiddleware(verifier TokenVerifier, resolver ViewerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return next(ctx, method, req)
			}

			if ua := strings.TrimSpace(extra.Header.Get("User-Agent")); ua != "" {
				ctx = context.WithValue(ctx, userAgentKey, ua)
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" || verifier == nil {
				return next(ctx, method, req)
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				return next(ctx, method, req)
			}
			viewer := entry.Viewer{ID: userID}
			if resolver != nil {
				viewer = resolver.ResolveViewer(ctx, userID)
			}
			ctx = context.WithValue(ctx, viewerKey, viewer)
			return next(ctx, method, req)
		}
	}
}

// fixedViewerMiddleware injects one viewer for every call, for local stdio use.
func fixedViewerMiddleware(viewer entry.Viewer) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, viewerKey, viewer)
			return next(ctx, method, req)
		}
	}
}
