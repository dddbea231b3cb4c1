package transport

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
)

type originKey struct{}

// OriginFromContext returns the fingerprinted network origin of the request.
func OriginFromContext(ctx context.Context) catalog.Origin {
	o, _ := ctx.Value(originKey{}).(catalog.Origin)
	return o
}

// OriginMiddleware fingerprints the client address and records the user agent.
// The raw address never leaves this middleware.
func OriginMiddleware(salt string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := catalog.Origin{
				IPHash:    ratelimit.Fingerprint(salt, clientHost(r.RemoteAddr)),
				UserAgent: strings.TrimSpace(r.UserAgent()),
			}
			ctx := context.WithValue(r.Context(), originKey{}, origin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
