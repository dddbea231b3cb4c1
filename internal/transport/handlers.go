package transport

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/ranking"
	"github.com/rpggio/launchpad/internal/domain/reputation"
)

type submitBody struct {
	Name       string           `json:"name"`
	Tagline    string           `json:"tagline"`
	URL        string           `json:"url"`
	Visibility entry.Visibility `json:"visibility"`
	Website    string           `json:"website"`
}

type editBody struct {
	Name       *string           `json:"name"`
	Tagline    *string           `json:"tagline"`
	URL        *string           `json:"url"`
	Visibility *entry.Visibility `json:"visibility"`
}

type rejectBody struct {
	Reason *string `json:"reason"`
}

type contactBody struct {
	Entry   string `json:"entry"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Website string `json:"website"`
}

type creatorStatsResponse struct {
	reputation.Stats
	Badges []string `json:"badges"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(q.Get("offset"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	listing := s.catalog.List(r.Context(), ViewerFromContext(r.Context()), catalog.ListOptions{
		Sort:   ranking.ParseSortKey(q.Get("sort")),
		Limit:  limit,
		Offset: offset,
	}, s.now())
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	card, err := s.catalog.Detail(r.Context(), ViewerFromContext(r.Context()), chi.URLParam(r, "ref"), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body submitBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := s.catalog.Submit(r.Context(), ViewerFromContext(r.Context()), catalog.SubmissionRequest{
		Entry: entry.SubmitRequest{
			Name:       body.Name,
			Tagline:    body.Tagline,
			URL:        body.URL,
			Visibility: body.Visibility,
		},
		Honeypot: body.Website,
		Origin:   OriginFromContext(r.Context()),
	}, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, receipt)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var body editBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.catalog.Edit(r.Context(), ViewerFromContext(r.Context()), entry.UpdateRequest{
		ID:         chi.URLParam(r, "ref"),
		Name:       body.Name,
		Tagline:    body.Tagline,
		URL:        body.URL,
		Visibility: body.Visibility,
	}, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.moderate(w, r, entry.TransitionRequest{ID: chi.URLParam(r, "ref"), To: entry.StatusApproved})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var body rejectBody
	if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, err)
		return
	}
	s.moderate(w, r, entry.TransitionRequest{ID: chi.URLParam(r, "ref"), To: entry.StatusRejected, Reason: body.Reason})
}

func (s *Server) moderate(w http.ResponseWriter, r *http.Request, req entry.TransitionRequest) {
	res, err := s.catalog.Moderate(r.Context(), ViewerFromContext(r.Context()), req, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBoost(w http.ResponseWriter, r *http.Request) {
	b, err := s.catalog.Boost(r.Context(), ViewerFromContext(r.Context()), chi.URLParam(r, "ref"), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleFeature(w http.ResponseWriter, r *http.Request) {
	g, err := s.catalog.Feature(r.Context(), ViewerFromContext(r.Context()), chi.URLParam(r, "ref"), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	pending, err := s.catalog.Queue(r.Context(), ViewerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if pending == nil {
		pending = []entry.Entry{}
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	status, err := s.catalog.Inventory(r.Context(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleCreatorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.catalog.CreatorStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	badges := reputation.Badges(stats)
	if badges == nil {
		badges = []string{}
	}
	writeJSON(w, http.StatusOK, creatorStatsResponse{Stats: stats, Badges: badges})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var body contactBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := s.catalog.Contact(r.Context(), ViewerFromContext(r.Context()), catalog.ContactRequest{
		EntryRef: body.Entry,
		Email:    body.Email,
		Message:  body.Message,
		Honeypot: body.Website,
		Origin:   OriginFromContext(r.Context()),
	}, s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, receipt)
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, catalog.ErrInvalidInput
	}
	return n, nil
}
