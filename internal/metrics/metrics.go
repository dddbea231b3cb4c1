package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the catalog's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "launchpad",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "launchpad",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "catalog",
			Name:      "decisions_total",
			Help:      "Catalog operations by outcome.",
		},
		[]string{"action", "outcome"},
	)

	listings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchpad",
			Subsystem: "catalog",
			Name:      "listings_total",
			Help:      "Listings served, by sort key and whether the store failed.",
		},
		[]string{"sort", "degraded"},
	)

	boostSlots = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "launchpad",
			Subsystem: "boost",
			Name:      "active_slots",
			Help:      "Boost slots in use at the last inventory read.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		decisions,
		listings,
		boostSlots,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordDecision counts one catalog operation outcome, e.g. ("submit", "rate_limited").
func RecordDecision(action, outcome string) {
	if action == "" {
		action = "unknown"
	}
	if outcome == "" {
		outcome = "ok"
	}
	decisions.WithLabelValues(action, outcome).Inc()
}

// RecordListing counts a served listing.
func RecordListing(sort string, degraded bool) {
	listings.WithLabelValues(sort, strconv.FormatBool(degraded)).Inc()
}

// RecordBoostSlots publishes the number of active boosts.
func RecordBoostSlots(active int) {
	boostSlots.Set(float64(active))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// canonicalPath collapses ids so label cardinality stays bounded.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	switch parts[0] {
	case "entries":
		switch len(parts) {
		case 1:
			return "/entries"
		case 2:
			return "/entries/:ref"
		default:
			return "/entries/:id/" + parts[2]
		}
	case "creators":
		if len(parts) > 1 {
			return "/creators/:id/stats"
		}
	}
	return "/" + parts[0]
}
