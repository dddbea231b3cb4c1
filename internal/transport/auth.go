package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpggio/launchpad/internal/domain/entry"
)

// ErrUnauthorized indicates an invalid bearer token.
var ErrUnauthorized = errors.New("unauthorized")

type viewerKey struct{}

// ViewerResolver maps an authenticated user id to a viewer with capabilities.
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, userID string) entry.Viewer
}

// ViewerFromContext returns the request viewer. Requests without one are anonymous.
func ViewerFromContext(ctx context.Context) entry.Viewer {
	v, _ := ctx.Value(viewerKey{}).(entry.Viewer)
	return v
}

// WithViewer returns a context carrying viewer.
func WithViewer(ctx context.Context, viewer entry.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

// TokenVerifier checks HS256 bearer tokens whose subject is the user id.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier. An empty secret rejects every token.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Sign issues a token for subject valid for ttl.
func (v *TokenVerifier) Sign(subject string, ttl time.Duration) (string, error) {
	if v == nil || len(v.secret) == 0 {
		return "", ErrUnauthorized
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify returns the token subject.
func (v *TokenVerifier) Verify(raw string) (string, error) {
	if v == nil || len(v.secret) == 0 {
		return "", ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrUnauthorized
	}
	return subject, nil
}

// ViewerMiddleware resolves the optional bearer token into a viewer.
// Missing or invalid tokens leave the request anonymous.
func ViewerMiddleware(verifier *TokenVerifier, resolver ViewerResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("ignoring bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			viewer := entry.Viewer{ID: userID}
			if resolver != nil {
				viewer = resolver.ResolveViewer(r.Context(), userID)
			}
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
