package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
)

type groupView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsExpanded  bool      `json:"isExpanded"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toGroupView(g *domain.Group) groupView {
	return groupView{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		IsExpanded:  g.IsExpanded,
		CreatedAt:   g.CreatedAt,
	}
}

func toGroupViews(groups []*domain.Group) []groupView {
	out := make([]groupView, len(groups))
	for i, g := range groups {
		out[i] = toGroupView(g)
	}
	return out
}

type groupsResponse struct {
	Groups []groupView `json:"groups"`
}

// ListGroups returns the user's groups in creation order.
func ListGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, groupsResponse{Groups: toGroupViews(sess.Groups())})
	}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateGroup adds a new group, expanded by default.
func CreateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}

		var req createGroupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		group, err := sess.AddGroup(r.Context(), store.NewGroup{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if group == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}
		writeJSON(w, http.StatusCreated, toGroupView(group))
	}
}

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsExpanded  *bool   `json:"isExpanded"`
}

// UpdateGroup applies a partial edit to a group.
func UpdateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}

		var req updateGroupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		patch := domain.GroupPatch{
			Name:        req.Name,
			Description: req.Description,
			IsExpanded:  req.IsExpanded,
		}
		if patch.IsZero() {
			writeError(w, http.StatusBadRequest, "empty patch")
			return
		}

		id := chi.URLParam(r, "id")
		if err := sess.UpdateGroup(r.Context(), id, patch); err != nil {
			writeStoreError(w, err)
			return
		}
		group := findGroupView(sess, id)
		if group == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, *group)
	}
}

// DeleteGroup soft-deletes a group. The entries tagged with it keep
// their tags.
func DeleteGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		if err := sess.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// ToggleGroup flips a group between expanded and collapsed.
func ToggleGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := sess.ToggleGroupExpansion(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		group := findGroupView(sess, id)
		if group == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, *group)
	}
}

type groupFromTagRequest struct {
	Tag string `json:"tag"`
}

// GroupFromTag promotes an existing tag into a named group. The tag
// must appear on at least one active entry.
func GroupFromTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}

		var req groupFromTagRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Tag == "" {
			writeError(w, http.StatusBadRequest, "tag is required")
			return
		}
		if len(sess.ByTag(req.Tag)) == 0 {
			writeError(w, http.StatusNotFound, "no entries carry this tag")
			return
		}
		for _, g := range sess.Groups() {
			if g.Name == req.Tag {
				writeError(w, http.StatusConflict, "group already exists for this tag")
				return
			}
		}

		group, err := sess.AddGroup(r.Context(), store.NewGroup{Name: req.Tag})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if group == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}
		writeJSON(w, http.StatusCreated, toGroupView(group))
	}
}

func findGroupView(sess *store.Session, id string) *groupView {
	for _, g := range sess.Groups() {
		if g.ID == id {
			v := toGroupView(g)
			return &v
		}
	}
	return nil
}
