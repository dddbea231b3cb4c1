package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
	"github.com/rpggio/launchpad/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{entry.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
		{entry.ErrNotFound, http.StatusNotFound, "not_found"},
		{entry.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition"},
		{fmt.Errorf("creating entry: %w", entry.ErrInvalidInput), http.StatusBadRequest, "invalid_input"},
		{boost.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
		{boost.ErrAlreadyBoosted, http.StatusConflict, "already_boosted"},
		{boost.ErrNotPromotable, http.StatusConflict, "not_promotable"},
		{boost.ErrAlreadyUsedThisMonth, http.StatusConflict, "already_used_this_month"},
		{ratelimit.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{repository.NewStoreError("list entries", "", errors.New("database is locked")), http.StatusServiceUnavailable, "store_error"},
		{errors.New("boom"), http.StatusInternalServerError, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, body := MapError(tt.err)
			require.Equal(t, tt.status, status)
			require.Equal(t, tt.code, body.Code)
			require.NotEmpty(t, body.Error)
		})
	}
}

func TestMapError_HidesInternals(t *testing.T) {
	_, body := MapError(repository.NewStoreError("get entry", "e1", errors.New("disk I/O error at /var/lib/db")))
	require.NotContains(t, body.Error, "disk")
}

func TestWriteError_AnonymousRefusalIs401(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodPost, "/entries", nil), entry.ErrUnauthorized)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/entries", nil)
	req = req.WithContext(WithViewer(req.Context(), entry.Viewer{ID: "u1"}))
	rec = httptest.NewRecorder()
	writeError(rec, req, entry.ErrUnauthorized)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
