package transport

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

const maxThrottleKeys = 10000

// Throttle caps the raw request rate per client, ahead of the catalog's own
// per-action allowances.
type Throttle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   *slog.Logger
}

// NewThrottle creates a throttle. A non-positive rate disables it.
func NewThrottle(requestsPerSecond float64, burst int, logger *slog.Logger) *Throttle {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}
}

func (t *Throttle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[key]
	if !ok {
		if len(t.limiters) >= maxThrottleKeys {
			t.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(t.rate, t.burst)
		t.limiters[key] = l
	}
	return l
}

// Handler rejects requests over the rate with 429. Authenticated viewers are
// keyed by user id, everyone else by origin fingerprint.
func (t *Throttle) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := ViewerFromContext(r.Context()).ID
		if key == "" {
			key = OriginFromContext(r.Context()).IPHash
		}
		if key == "" {
			key = r.RemoteAddr
		}

		if !t.limiter(key).Allow() {
			t.logger.Info("request throttled", "path", r.URL.Path, "method", r.Method)
			writeJSON(w, http.StatusTooManyRequests, ErrorBody{Error: "too many requests", Code: "throttled"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
