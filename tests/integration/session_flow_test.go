package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
)

// hubRemote is an in-memory stand-in for the Redis store. Every write
// is broadcast to all watchers of the owning user, including the
// writer's own, the same way a pub/sub subscription echoes.
type hubRemote struct {
	mu      sync.Mutex
	entries map[string]map[string]*domain.Entry // userID -> id -> entry
	groups  map[string]map[string]*domain.Group

	entryWatchers map[string][]*hubEntryWatch
	groupWatchers map[string][]*hubGroupWatch
}

func newHubRemote() *hubRemote {
	return &hubRemote{
		entries:       map[string]map[string]*domain.Entry{},
		groups:        map[string]map[string]*domain.Group{},
		entryWatchers: map[string][]*hubEntryWatch{},
		groupWatchers: map[string][]*hubGroupWatch{},
	}
}

type hubEntryWatch struct {
	ch   chan []remote.EntryChange
	once sync.Once
}

func (w *hubEntryWatch) Changes() <-chan []remote.EntryChange { return w.ch }
func (w *hubEntryWatch) Close() error {
	w.once.Do(func() { close(w.ch) })
	return nil
}

type hubGroupWatch struct {
	ch   chan []remote.GroupChange
	once sync.Once
}

func (w *hubGroupWatch) Changes() <-chan []remote.GroupChange { return w.ch }
func (w *hubGroupWatch) Close() error {
	w.once.Do(func() { close(w.ch) })
	return nil
}

func (h *hubRemote) broadcastEntry(userID string, kind remote.ChangeKind, e *domain.Entry) {
	batch := []remote.EntryChange{{Kind: kind, Entry: e.Clone()}}
	for _, w := range h.entryWatchers[userID] {
		select {
		case w.ch <- batch:
		default:
		}
	}
}

func (h *hubRemote) broadcastGroup(userID string, kind remote.ChangeKind, g *domain.Group) {
	batch := []remote.GroupChange{{Kind: kind, Group: g.Clone()}}
	for _, w := range h.groupWatchers[userID] {
		select {
		case w.ch <- batch:
		default:
		}
	}
}

func (h *hubRemote) LoadEntries(_ context.Context, userID string) ([]*domain.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*domain.Entry
	for _, e := range h.entries[userID] {
		if !e.IsDeleted() {
			out = append(out, e.Clone())
		}
	}
	domain.SortByCreation(out)
	return out, nil
}

func (h *hubRemote) LoadGroups(_ context.Context, userID string) ([]*domain.Group, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*domain.Group
	for _, g := range h.groups[userID] {
		if !g.IsDeleted() {
			out = append(out, g.Clone())
		}
	}
	domain.SortGroupsByCreation(out)
	return out, nil
}

func (h *hubRemote) CreateEntry(_ context.Context, e *domain.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[e.UserID] == nil {
		h.entries[e.UserID] = map[string]*domain.Entry{}
	}
	h.entries[e.UserID][e.ID] = e.Clone()
	h.broadcastEntry(e.UserID, remote.ChangeAdded, e)
	return nil
}

func (h *hubRemote) RecordVisit(_ context.Context, userID, id string, visits int64, lastVisit time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[userID][id]
	if !ok {
		return remote.ErrNotFound
	}
	e.Visits = visits
	lv := lastVisit
	e.LastVisit = &lv
	h.broadcastEntry(userID, remote.ChangeModified, e)
	return nil
}

func (h *hubRemote) UpdateEntry(_ context.Context, userID, id string, patch domain.EntryPatch) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[userID][id]
	if !ok {
		return remote.ErrNotFound
	}
	patch.Apply(e)
	h.broadcastEntry(userID, remote.ChangeModified, e)
	return nil
}

func (h *hubRemote) DeleteEntry(_ context.Context, userID, id string, at time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[userID][id]
	if !ok {
		return remote.ErrNotFound
	}
	e.Deleted = &domain.Deletion{At: at}
	h.broadcastEntry(userID, remote.ChangeModified, e)
	return nil
}

func (h *hubRemote) CreateGroup(_ context.Context, g *domain.Group) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.groups[g.UserID] == nil {
		h.groups[g.UserID] = map[string]*domain.Group{}
	}
	h.groups[g.UserID][g.ID] = g.Clone()
	h.broadcastGroup(g.UserID, remote.ChangeAdded, g)
	return nil
}

func (h *hubRemote) UpdateGroup(_ context.Context, userID, id string, patch domain.GroupPatch) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[userID][id]
	if !ok {
		return remote.ErrNotFound
	}
	patch.Apply(g)
	h.broadcastGroup(userID, remote.ChangeModified, g)
	return nil
}

func (h *hubRemote) DeleteGroup(_ context.Context, userID, id string, at time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[userID][id]
	if !ok {
		return remote.ErrNotFound
	}
	g.Deleted = &domain.Deletion{At: at}
	h.broadcastGroup(userID, remote.ChangeModified, g)
	return nil
}

func (h *hubRemote) WatchEntries(_ context.Context, userID string) (remote.EntryWatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w := &hubEntryWatch{ch: make(chan []remote.EntryChange, 64)}
	h.entryWatchers[userID] = append(h.entryWatchers[userID], w)
	return w, nil
}

func (h *hubRemote) WatchGroups(_ context.Context, userID string) (remote.GroupWatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w := &hubGroupWatch{ch: make(chan []remote.GroupChange, 64)}
	h.groupWatchers[userID] = append(h.groupWatchers[userID], w)
	return w, nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func openTab(t *testing.T, hub *hubRemote, userID string) *store.Session {
	t.Helper()
	sess := store.NewSession(userID, hub, logger.New("error", false))
	if err := sess.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

// Two sessions for the same user behave like two open tabs: a write in
// one converges into the other through the change subscription.
func TestTwoTabsConverge(t *testing.T) {
	hub := newHubRemote()
	ctx := context.Background()

	tabA := openTab(t, hub, "user-1")
	tabB := openTab(t, hub, "user-1")

	entry, err := tabA.AddEntry(ctx, store.NewEntry{
		Title: "Docs",
		URL:   "https://docs.example.com",
		Tags:  []string{"work"},
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	waitFor(t, "tab B to see the new entry", func() bool {
		return tabB.Entry(entry.ID) != nil
	})

	if err := tabB.RecordVisit(ctx, entry.ID); err != nil {
		t.Fatalf("RecordVisit: %v", err)
	}
	waitFor(t, "tab A to see the visit", func() bool {
		e := tabA.Entry(entry.ID)
		return e != nil && e.Visits == 1
	})

	title := "Documentation"
	if err := tabA.EditEntry(ctx, entry.ID, domain.EntryPatch{Title: &title}); err != nil {
		t.Fatalf("EditEntry: %v", err)
	}
	waitFor(t, "tab B to see the rename", func() bool {
		e := tabB.Entry(entry.ID)
		return e != nil && e.Title == "Documentation"
	})

	if err := tabB.RemoveEntry(ctx, entry.ID); err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	waitFor(t, "tab A to drop the deleted entry", func() bool {
		return tabA.Entry(entry.ID) == nil
	})
}

func TestTwoTabsConverge_Groups(t *testing.T) {
	hub := newHubRemote()
	ctx := context.Background()

	tabA := openTab(t, hub, "user-1")
	tabB := openTab(t, hub, "user-1")

	group, err := tabA.AddGroup(ctx, store.NewGroup{Name: "work"})
	if err != nil {
		t.Fatalf("AddGroup: %v", err)
	}

	waitFor(t, "tab B to see the new group", func() bool {
		for _, g := range tabB.Groups() {
			if g.ID == group.ID {
				return true
			}
		}
		return false
	})

	if err := tabB.ToggleGroupExpansion(ctx, group.ID); err != nil {
		t.Fatalf("ToggleGroupExpansion: %v", err)
	}
	waitFor(t, "tab A to see the collapse", func() bool {
		for _, g := range tabA.Groups() {
			if g.ID == group.ID {
				return !g.IsExpanded
			}
		}
		return false
	})
}

// Sessions belonging to different users never observe each other.
func TestUserIsolation(t *testing.T) {
	hub := newHubRemote()
	ctx := context.Background()

	alice := openTab(t, hub, "alice")
	bob := openTab(t, hub, "bob")

	if _, err := alice.AddEntry(ctx, store.NewEntry{Title: "Mine", URL: "https://a.example.com"}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	waitFor(t, "alice to own one entry", func() bool {
		return len(alice.Entries()) == 1
	})
	time.Sleep(50 * time.Millisecond)
	if got := len(bob.Entries()); got != 0 {
		t.Fatalf("bob sees %d entries, want 0", got)
	}
}

// A fresh session loads what previous sessions persisted.
func TestReloadFromRemote(t *testing.T) {
	hub := newHubRemote()
	ctx := context.Background()

	first := openTab(t, hub, "user-1")
	if _, err := first.AddEntry(ctx, store.NewEntry{Title: "Keep", URL: "https://keep.example.com"}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	first.Close()

	second := openTab(t, hub, "user-1")
	entries := second.Entries()
	if len(entries) != 1 || entries[0].Title != "Keep" {
		t.Fatalf("reloaded entries = %+v, want the persisted one", entries)
	}
}
