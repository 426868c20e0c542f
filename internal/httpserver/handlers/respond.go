package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/mw"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusBadGateway, "remote write failed")
	}
}

// session resolves the authenticated user's session, opening it on
// first use. It writes the error response itself on failure.
func session(w http.ResponseWriter, r *http.Request, d deps.Deps) (*store.Session, bool) {
	userID := mw.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	sess, err := d.Sessions.Open(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to load user data")
		return nil, false
	}
	return sess, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
