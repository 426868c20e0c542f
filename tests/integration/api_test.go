package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/auth"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/routes"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/importer"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
)

type apiHarness struct {
	router  chi.Router
	cookie  *http.Cookie
	service *auth.Service
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	log := logger.New("error", false)
	hub := newHubRemote()
	sessions := store.NewManager(hub, log)
	t.Cleanup(sessions.CloseAll)

	authService := auth.New(auth.Config{
		JWTSecret:  "integration-secret",
		SessionTTL: time.Hour,
	})

	d := deps.Deps{
		Logger:      log,
		StartTime:   time.Now(),
		TimeNow:     time.Now,
		Sessions:    sessions,
		Auth:        authService,
		Importer:    importer.New(nil, time.Second, log),
		FrontendURL: "http://localhost:5173",
		SearchLimit: 50,
	}

	router := chi.NewRouter()
	routes.RegisterAll(router, d)

	rec := httptest.NewRecorder()
	if err := authService.SetSessionCookie(rec, "user-1"); err != nil {
		t.Fatalf("SetSessionCookie: %v", err)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie issued")
	}

	return &apiHarness{router: router, cookie: cookie, service: authService}
}

func (h *apiHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.AddCookie(h.cookie)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestAPI_EntryLifecycle(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/entries", map[string]any{
		"title": "Docs",
		"url":   "https://docs.example.com",
		"tags":  []string{"work", "work", " reference "},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}
	decodeInto(t, rec, &created)
	if created.ID == "" {
		t.Fatal("created entry has no id")
	}
	if len(created.Tags) != 2 {
		t.Errorf("tags = %v, want deduped and trimmed pair", created.Tags)
	}

	rec = h.do(t, http.MethodPost, "/api/entries/"+created.ID+"/visit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("visit status = %d", rec.Code)
	}
	var visited struct {
		Visits int64 `json:"visits"`
	}
	decodeInto(t, rec, &visited)
	if visited.Visits != 1 {
		t.Errorf("visits = %d, want 1", visited.Visits)
	}

	rec = h.do(t, http.MethodPatch, "/api/entries/"+created.ID, map[string]any{
		"title": "Documentation",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = h.do(t, http.MethodGet, "/api/entries", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Entries []struct {
			Title  string `json:"title"`
			Visits int64  `json:"visits"`
		} `json:"entries"`
	}
	decodeInto(t, rec, &list)
	if len(list.Entries) != 1 || list.Entries[0].Title != "Documentation" {
		t.Fatalf("list = %+v, want the renamed entry", list.Entries)
	}

	rec = h.do(t, http.MethodDelete, "/api/entries/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = h.do(t, http.MethodGet, "/api/entries", nil)
	decodeInto(t, rec, &list)
	if len(list.Entries) != 0 {
		t.Fatalf("list after delete = %+v, want empty", list.Entries)
	}
}

func TestAPI_RejectsUnauthenticated(t *testing.T) {
	h := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAPI_SearchAndTags(t *testing.T) {
	h := newAPIHarness(t)

	for _, e := range []map[string]any{
		{"title": "GitHub", "url": "https://github.com", "tags": []string{"dev"}},
		{"title": "Grafana", "url": "https://grafana.example.com", "tags": []string{"dev", "ops"}},
		{"title": "Recipes", "url": "https://food.example.com", "tags": []string{"home"}},
	} {
		if rec := h.do(t, http.MethodPost, "/api/entries", e); rec.Code != http.StatusCreated {
			t.Fatalf("seed create status = %d", rec.Code)
		}
	}

	rec := h.do(t, http.MethodGet, "/api/search?q=github", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d", rec.Code)
	}
	var results struct {
		Entries []struct {
			Title string `json:"title"`
		} `json:"entries"`
	}
	decodeInto(t, rec, &results)
	if len(results.Entries) == 0 || results.Entries[0].Title != "GitHub" {
		t.Fatalf("search top = %+v, want GitHub first", results.Entries)
	}

	rec = h.do(t, http.MethodGet, "/api/tags", nil)
	var tags struct {
		Tags []string `json:"tags"`
	}
	decodeInto(t, rec, &tags)
	if len(tags.Tags) != 3 {
		t.Fatalf("tags = %v, want dev/ops/home", tags.Tags)
	}

	rec = h.do(t, http.MethodGet, "/api/tags/dev", nil)
	decodeInto(t, rec, &results)
	if len(results.Entries) != 2 {
		t.Fatalf("entries tagged dev = %d, want 2", len(results.Entries))
	}

	rec = h.do(t, http.MethodGet, "/api/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("search without q status = %d, want 400", rec.Code)
	}
}

func TestAPI_GroupsAndFromTag(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/groups", map[string]any{"name": "work"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group status = %d", rec.Code)
	}
	var group struct {
		ID         string `json:"id"`
		IsExpanded bool   `json:"isExpanded"`
	}
	decodeInto(t, rec, &group)
	if !group.IsExpanded {
		t.Error("new group should start expanded")
	}

	rec = h.do(t, http.MethodPost, "/api/groups/"+group.ID+"/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	decodeInto(t, rec, &group)
	if group.IsExpanded {
		t.Error("toggle should collapse the group")
	}

	// from-tag requires the tag to exist on an entry
	rec = h.do(t, http.MethodPost, "/api/groups/from-tag", map[string]any{"tag": "media"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("from-tag on unknown tag status = %d, want 404", rec.Code)
	}

	if rec := h.do(t, http.MethodPost, "/api/entries", map[string]any{
		"title": "Jellyfin", "url": "https://tv.example.com", "tags": []string{"media"},
	}); rec.Code != http.StatusCreated {
		t.Fatalf("seed entry status = %d", rec.Code)
	}
	rec = h.do(t, http.MethodPost, "/api/groups/from-tag", map[string]any{"tag": "media"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("from-tag status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = h.do(t, http.MethodPost, "/api/groups/from-tag", map[string]any{"tag": "media"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate from-tag status = %d, want 409", rec.Code)
	}
}

func TestAPI_Import(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/import", map[string]any{
		"sites": []map[string]any{
			{"title": "Docs", "url": "https://docs.example.com", "visitCount": 12},
			{"title": "News", "url": "https://news.example.com", "visitCount": 3},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Imported []struct {
			Visits int64    `json:"visits"`
			Tags   []string `json:"tags"`
		} `json:"imported"`
	}
	decodeInto(t, rec, &resp)
	if len(resp.Imported) != 2 {
		t.Fatalf("imported = %d, want 2", len(resp.Imported))
	}
	if resp.Imported[0].Visits != 12 {
		t.Errorf("visits = %d, want carried over 12", resp.Imported[0].Visits)
	}
}
