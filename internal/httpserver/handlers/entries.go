package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
)

type entryView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Preview     string     `json:"preview,omitempty"`
	Favicon     string     `json:"favicon,omitempty"`
	Tags        []string   `json:"tags"`
	Visits      int64      `json:"visits"`
	LastVisit   *time.Time `json:"lastVisit,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toEntryView(e *domain.Entry) entryView {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return entryView{
		ID:          e.ID,
		Title:       e.Title,
		URL:         e.URL,
		Description: e.Description,
		Preview:     e.Preview,
		Favicon:     e.Favicon,
		Tags:        tags,
		Visits:      e.Visits,
		LastVisit:   e.LastVisit,
		CreatedAt:   e.CreatedAt,
	}
}

func toEntryViews(entries []*domain.Entry) []entryView {
	out := make([]entryView, len(entries))
	for i, e := range entries {
		out[i] = toEntryView(e)
	}
	return out
}

type entriesResponse struct {
	Entries []entryView `json:"entries"`
}

// ListEntries returns the user's entries in creation order.
func ListEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, entriesResponse{Entries: toEntryViews(sess.Entries())})
	}
}

type createEntryRequest struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Preview     string   `json:"preview"`
	Favicon     string   `json:"favicon"`
	Tags        []string `json:"tags"`
}

// CreateEntry adds a new entry.
func CreateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}

		var req createEntryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Title == "" || req.URL == "" {
			writeError(w, http.StatusBadRequest, "title and url are required")
			return
		}
		if _, err := url.ParseRequestURI(req.URL); err != nil {
			writeError(w, http.StatusBadRequest, "invalid url")
			return
		}

		entry, err := sess.AddEntry(r.Context(), store.NewEntry{
			Title:       req.Title,
			URL:         req.URL,
			Description: req.Description,
			Preview:     req.Preview,
			Favicon:     req.Favicon,
			Tags:        req.Tags,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if entry == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}
		writeJSON(w, http.StatusCreated, toEntryView(entry))
	}
}

type updateEntryRequest struct {
	Title       *string   `json:"title"`
	URL         *string   `json:"url"`
	Description *string   `json:"description"`
	Preview     *string   `json:"preview"`
	Favicon     *string   `json:"favicon"`
	Tags        *[]string `json:"tags"`
}

// UpdateEntry applies a partial edit to an entry.
func UpdateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}

		var req updateEntryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		patch := domain.EntryPatch{
			Title:       req.Title,
			URL:         req.URL,
			Description: req.Description,
			Preview:     req.Preview,
			Favicon:     req.Favicon,
			Tags:        req.Tags,
		}
		if patch.IsZero() {
			writeError(w, http.StatusBadRequest, "empty patch")
			return
		}

		id := chi.URLParam(r, "id")
		if err := sess.EditEntry(r.Context(), id, patch); err != nil {
			writeStoreError(w, err)
			return
		}
		entry := sess.Entry(id)
		if entry == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, toEntryView(entry))
	}
}

// DeleteEntry soft-deletes an entry.
func DeleteEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		if err := sess.RemoveEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// Visit records one launch of an entry.
func Visit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := sess.RecordVisit(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		entry := sess.Entry(id)
		if entry == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, toEntryView(entry))
	}
}
