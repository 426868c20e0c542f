package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

var errRemoteDown = errors.New("remote unavailable")

// fakeRemote is an in-memory remote.Store with per-operation failure
// switches and optional gates to hold a write in flight.
type fakeRemote struct {
	mu      sync.Mutex
	entries map[string]*domain.Entry
	groups  map[string]*domain.Group

	failCreateEntry bool
	failRecordVisit bool
	failUpdateEntry bool
	failDeleteEntry bool
	failCreateGroup bool
	failUpdateGroup bool
	failDeleteGroup bool

	// When non-nil, DeleteEntry blocks until the gate is closed.
	deleteGate chan struct{}

	entryCh chan []remote.EntryChange
	groupCh chan []remote.GroupChange
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		entries: make(map[string]*domain.Entry),
		groups:  make(map[string]*domain.Group),
		entryCh: make(chan []remote.EntryChange, 16),
		groupCh: make(chan []remote.GroupChange, 16),
	}
}

func (f *fakeRemote) LoadEntries(ctx context.Context, userID string) ([]*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.UserID != userID || e.IsDeleted() {
			continue
		}
		out = append(out, e.Clone())
	}
	domain.SortByCreation(out)
	return out, nil
}

func (f *fakeRemote) LoadGroups(ctx context.Context, userID string) ([]*domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Group, 0, len(f.groups))
	for _, g := range f.groups {
		if g.UserID != userID || g.IsDeleted() {
			continue
		}
		out = append(out, g.Clone())
	}
	domain.SortGroupsByCreation(out)
	return out, nil
}

func (f *fakeRemote) CreateEntry(ctx context.Context, e *domain.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateEntry {
		return errRemoteDown
	}
	f.entries[e.ID] = e.Clone()
	return nil
}

func (f *fakeRemote) RecordVisit(ctx context.Context, userID, id string, visits int64, lastVisit time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRecordVisit {
		return errRemoteDown
	}
	e, ok := f.entries[id]
	if !ok {
		return remote.ErrNotFound
	}
	e.Visits = visits
	lv := lastVisit
	e.LastVisit = &lv
	return nil
}

func (f *fakeRemote) UpdateEntry(ctx context.Context, userID, id string, patch domain.EntryPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateEntry {
		return errRemoteDown
	}
	e, ok := f.entries[id]
	if !ok {
		return remote.ErrNotFound
	}
	patch.Apply(e)
	return nil
}

func (f *fakeRemote) DeleteEntry(ctx context.Context, userID, id string, at time.Time) error {
	f.mu.Lock()
	gate := f.deleteGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeleteEntry {
		return errRemoteDown
	}
	e, ok := f.entries[id]
	if !ok {
		return remote.ErrNotFound
	}
	e.Deleted = &domain.Deletion{At: at}
	return nil
}

func (f *fakeRemote) CreateGroup(ctx context.Context, g *domain.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateGroup {
		return errRemoteDown
	}
	f.groups[g.ID] = g.Clone()
	return nil
}

func (f *fakeRemote) UpdateGroup(ctx context.Context, userID, id string, patch domain.GroupPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateGroup {
		return errRemoteDown
	}
	g, ok := f.groups[id]
	if !ok {
		return remote.ErrNotFound
	}
	patch.Apply(g)
	return nil
}

func (f *fakeRemote) DeleteGroup(ctx context.Context, userID, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeleteGroup {
		return errRemoteDown
	}
	g, ok := f.groups[id]
	if !ok {
		return remote.ErrNotFound
	}
	g.Deleted = &domain.Deletion{At: at}
	return nil
}

type fakeEntryWatch struct {
	ch   chan []remote.EntryChange
	once sync.Once
}

func (w *fakeEntryWatch) Changes() <-chan []remote.EntryChange { return w.ch }
func (w *fakeEntryWatch) Close() error {
	w.once.Do(func() { close(w.ch) })
	return nil
}

type fakeGroupWatch struct {
	ch   chan []remote.GroupChange
	once sync.Once
}

func (w *fakeGroupWatch) Changes() <-chan []remote.GroupChange { return w.ch }
func (w *fakeGroupWatch) Close() error {
	w.once.Do(func() { close(w.ch) })
	return nil
}

func (f *fakeRemote) WatchEntries(ctx context.Context, userID string) (remote.EntryWatch, error) {
	return &fakeEntryWatch{ch: f.entryCh}, nil
}

func (f *fakeRemote) WatchGroups(ctx context.Context, userID string) (remote.GroupWatch, error) {
	return &fakeGroupWatch{ch: f.groupCh}, nil
}

// pushEntryBatch simulates the remote change stream delivering a batch.
func (f *fakeRemote) pushEntryBatch(batch []remote.EntryChange) {
	f.entryCh <- batch
}
