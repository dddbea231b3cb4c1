package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThrottle_PerClient(t *testing.T) {
	throttle := NewThrottle(0.001, 2, nil)
	handler := OriginMiddleware("salt")(throttle.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/entries", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("198.51.100.1:1000"))
	require.Equal(t, http.StatusOK, send("198.51.100.1:1001"))
	require.Equal(t, http.StatusTooManyRequests, send("198.51.100.1:1002"))
	require.Equal(t, http.StatusOK, send("198.51.100.2:1000"), "other clients keep their own bucket")
}

func TestThrottle_Disabled(t *testing.T) {
	throttle := NewThrottle(0, 1, nil)
	handler := throttle.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/entries", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
