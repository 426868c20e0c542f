package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
)

func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// MostVisited returns entries ranked by visit count.
func MostVisited(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		limit := limitParam(r, d.SearchLimit)
		writeJSON(w, http.StatusOK, entriesResponse{Entries: toEntryViews(sess.MostVisited(limit))})
	}
}

// Recent returns entries ordered by most recent activity.
func Recent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		limit := limitParam(r, d.SearchLimit)
		writeJSON(w, http.StatusOK, entriesResponse{Entries: toEntryViews(sess.Recent(limit))})
	}
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// Tags returns the distinct tags across active entries.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		tags := sess.DistinctTags()
		if tags == nil {
			tags = []string{}
		}
		writeJSON(w, http.StatusOK, tagsResponse{Tags: tags})
	}
}

// ByTag returns the entries carrying one tag.
func ByTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		tag := chi.URLParam(r, "tag")
		writeJSON(w, http.StatusOK, entriesResponse{Entries: toEntryViews(sess.ByTag(tag))})
	}
}

// Search ranks entries against a free-text query.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}
		limit := limitParam(r, d.SearchLimit)
		writeJSON(w, http.StatusOK, entriesResponse{Entries: toEntryViews(sess.Search(query, limit))})
	}
}
