package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/profile"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
	"github.com/rpggio/launchpad/internal/repository"
)

const maxBodyBytes = 64 << 10

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{entry.ErrUnauthorized, http.StatusForbidden, "you are not allowed to do that"},
	{entry.ErrNotFound, http.StatusNotFound, "entry not found"},
	{profile.ErrProfileNotFound, http.StatusNotFound, "creator not found"},
	{repository.ErrNotFound, http.StatusNotFound, "not found"},
	{entry.ErrInvalidTransition, http.StatusUnprocessableEntity, "entries can only be approved or rejected"},
	{entry.ErrInvalidInput, http.StatusBadRequest, "invalid entry"},
	{boost.ErrInvalidInput, http.StatusBadRequest, "invalid boost"},
	{catalog.ErrInvalidInput, http.StatusBadRequest, "invalid request"},
	{repository.ErrInvalidInput, http.StatusBadRequest, "invalid request"},
	{boost.ErrCapacityExceeded, http.StatusConflict, "all boost slots are in use, try again later"},
	{boost.ErrAlreadyBoosted, http.StatusConflict, "this entry is already boosted"},
	{boost.ErrNotPromotable, http.StatusConflict, "only approved entries can be promoted"},
	{boost.ErrAlreadyUsedThisMonth, http.StatusConflict, "your featured token for this month is already used"},
	{repository.ErrConflict, http.StatusConflict, "conflict"},
	{ratelimit.ErrRateLimited, http.StatusTooManyRequests, "too many requests, try again later"},
}

// MapError converts a domain error to a status code and one human-readable
// message. Unknown errors are internal and their text is not exposed.
func MapError(err error) (int, ErrorBody) {
	code := catalog.Outcome(err)
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, ErrorBody{Error: m.message, Code: code}
		}
	}
	if repository.IsStoreError(err) {
		return http.StatusServiceUnavailable, ErrorBody{Error: "service temporarily unavailable", Code: code}
	}
	return http.StatusInternalServerError, ErrorBody{Error: "internal error", Code: code}
}

// writeError maps err, downgrading a refusal to 401 when nobody is signed in.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := MapError(err)
	if status == http.StatusForbidden && !ViewerFromContext(r.Context()).Authenticated() {
		status = http.StatusUnauthorized
		body.Error = "sign in required"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrInvalidInput, err)
	}
	return nil
}
