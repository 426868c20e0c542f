// Package store implements the per-user client state store: the single
// source of truth for a signed-in user's entries and groups. Every
// mutation follows an optimistic-update-then-persist pattern, and a
// consumer goroutine folds remote change batches back into local state.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

// ErrNotFound is returned when an operation references an entry or
// group that is not in the session's local state.
var ErrNotFound = errors.New("store: not found")

// State is the lifecycle state of a session.
type State int

const (
	// StateSignedOut: no data, no subscriptions.
	StateSignedOut State = iota
	// StateLoading: initial batched read in flight.
	StateLoading
	// StateSubscribed: subscriptions active, local state kept live.
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "signed-out"
	case StateLoading:
		return "loading"
	case StateSubscribed:
		return "subscribed"
	default:
		return "unknown"
	}
}

// Session holds one user's entries and groups and mediates every
// mutation. The local lists are owned exclusively by the session and
// mutated only through its operations or the reconciler.
type Session struct {
	userID string
	remote remote.Store
	logger logger.Logger

	// Overridable for tests.
	timeNow func() time.Time
	newID   func() string

	mu      sync.RWMutex
	state   State
	entries []*domain.Entry
	groups  []*domain.Group

	entryWatch remote.EntryWatch
	groupWatch remote.GroupWatch
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewSession creates a closed session for the given user.
// Call Open to load state and start the change subscriptions.
func NewSession(userID string, r remote.Store, log logger.Logger) *Session {
	return &Session{
		userID:  userID,
		remote:  r,
		logger:  log,
		timeNow: time.Now,
		newID:   uuid.NewString,
		state:   StateSignedOut,
	}
}

// UserID returns the owning user's identifier.
func (s *Session) UserID() string { return s.userID }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Open performs the initial batched read and starts the two change
// subscriptions. On any failure the session returns to signed-out.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateSignedOut {
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	entries, err := s.remote.LoadEntries(ctx, s.userID)
	if err != nil {
		s.abortOpen()
		return err
	}
	groups, err := s.remote.LoadGroups(ctx, s.userID)
	if err != nil {
		s.abortOpen()
		return err
	}

	entryWatch, err := s.remote.WatchEntries(ctx, s.userID)
	if err != nil {
		s.abortOpen()
		return err
	}
	groupWatch, err := s.remote.WatchGroups(ctx, s.userID)
	if err != nil {
		_ = entryWatch.Close()
		s.abortOpen()
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.groups = groups
	s.entryWatch = entryWatch
	s.groupWatch = groupWatch
	s.done = make(chan struct{})
	s.state = StateSubscribed
	s.mu.Unlock()

	s.wg.Add(2)
	go s.consumeEntryChanges(entryWatch)
	go s.consumeGroupChanges(groupWatch)

	s.logger.Info("session opened",
		logger.String("user_id", s.userID),
		logger.Int("entries", len(entries)),
		logger.Int("groups", len(groups)))

	return nil
}

func (s *Session) abortOpen() {
	s.mu.Lock()
	s.state = StateSignedOut
	s.mu.Unlock()
}

// Close tears down both subscriptions and discards all local state,
// returning the session to signed-out.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateSignedOut {
		s.mu.Unlock()
		return
	}
	entryWatch := s.entryWatch
	groupWatch := s.groupWatch
	done := s.done
	s.entryWatch = nil
	s.groupWatch = nil
	s.done = nil
	s.entries = nil
	s.groups = nil
	s.state = StateSignedOut
	s.mu.Unlock()

	if done != nil {
		close(done)
	}
	if entryWatch != nil {
		_ = entryWatch.Close()
	}
	if groupWatch != nil {
		_ = groupWatch.Close()
	}
	s.wg.Wait()

	s.logger.Info("session closed", logger.String("user_id", s.userID))
}

// mutate runs one optimistic operation: apply the local change, then
// persist it remotely; on persistence failure revert the local change.
// With no signed-in session the operation is a silent no-op and the
// returned bool is false.
func (s *Session) mutate(ctx context.Context, op string, apply func() error, persist func(context.Context) error, revert func()) (bool, error) {
	s.mu.Lock()
	if s.state == StateSignedOut {
		s.mu.Unlock()
		return false, nil
	}
	if err := apply(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	if err := persist(ctx); err != nil {
		s.logger.Warn("remote write failed, reverting local change",
			logger.String("user_id", s.userID),
			logger.String("op", op),
			logger.Error(err))
		s.mu.Lock()
		revert()
		s.mu.Unlock()
		return false, err
	}
	return true, nil
}

// ─────────────────────────────────────────────────────────────────
// Entry operations
// ─────────────────────────────────────────────────────────────────

// NewEntry is the payload for AddEntry.
type NewEntry struct {
	Title       string
	URL         string
	Description string
	Preview     string
	Favicon     string
	Tags        []string
}

// AddEntry assigns a fresh identifier, zero visit count and the
// current timestamp, appends the entry locally and persists it.
// On persistence failure the local entry is removed again.
func (s *Session) AddEntry(ctx context.Context, payload NewEntry) (*domain.Entry, error) {
	entry := &domain.Entry{
		ID:          s.newID(),
		UserID:      s.userID,
		CreatedAt:   s.timeNow(),
		Title:       payload.Title,
		URL:         payload.URL,
		Description: payload.Description,
		Preview:     payload.Preview,
		Favicon:     payload.Favicon,
		Tags:        domain.NormalizeTags(payload.Tags),
	}

	applied, err := s.mutate(ctx, "add_entry",
		func() error {
			s.entries = append(s.entries, entry)
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.CreateEntry(ctx, entry)
		},
		func() {
			s.entries = removeEntryByID(s.entries, entry.ID)
		},
	)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, nil
	}
	return entry.Clone(), nil
}

// RecordVisit increments the visit counter and sets the last-visit
// timestamp locally first, then persists only those two fields.
// On failure the prior snapshot of the entry is restored.
func (s *Session) RecordVisit(ctx context.Context, id string) error {
	var (
		snapshot  *domain.Entry
		visits    int64
		lastVisit time.Time
	)

	_, err := s.mutate(ctx, "record_visit",
		func() error {
			entry := findEntry(s.entries, id)
			if entry == nil {
				return ErrNotFound
			}
			snapshot = entry.Clone()
			lastVisit = s.timeNow()
			entry.Visits++
			lv := lastVisit
			entry.LastVisit = &lv
			visits = entry.Visits
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.RecordVisit(ctx, s.userID, id, visits, lastVisit)
		},
		func() {
			s.entries = replaceEntry(s.entries, snapshot)
		},
	)
	return err
}

// RemoveEntry removes the entry from local state immediately and
// persists a soft delete. On failure the entry is re-inserted,
// resorted by creation time.
func (s *Session) RemoveEntry(ctx context.Context, id string) error {
	var snapshot *domain.Entry

	_, err := s.mutate(ctx, "remove_entry",
		func() error {
			entry := findEntry(s.entries, id)
			if entry == nil {
				return ErrNotFound
			}
			snapshot = entry
			s.entries = removeEntryByID(s.entries, id)
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.DeleteEntry(ctx, s.userID, id, s.timeNow())
		},
		func() {
			s.entries = append(s.entries, snapshot)
			domain.SortByCreation(s.entries)
		},
	)
	return err
}

// EditEntry merges the partial update into the local entry and sends
// it to the remote store. Fields that are never client-writable
// (identifier, owner, creation time, visit counter) cannot be
// expressed in the patch. On failure the pre-edit entry is restored.
func (s *Session) EditEntry(ctx context.Context, id string, patch domain.EntryPatch) error {
	var snapshot *domain.Entry

	_, err := s.mutate(ctx, "edit_entry",
		func() error {
			entry := findEntry(s.entries, id)
			if entry == nil {
				return ErrNotFound
			}
			snapshot = entry.Clone()
			patch.Apply(entry)
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.UpdateEntry(ctx, s.userID, id, patch)
		},
		func() {
			s.entries = replaceEntry(s.entries, snapshot)
		},
	)
	return err
}

// ─────────────────────────────────────────────────────────────────
// Group operations
// ─────────────────────────────────────────────────────────────────

// NewGroup is the payload for AddGroup.
type NewGroup struct {
	Name        string
	Description string
}

// AddGroup creates a group with a fresh identifier and persists it.
func (s *Session) AddGroup(ctx context.Context, payload NewGroup) (*domain.Group, error) {
	group := &domain.Group{
		ID:          s.newID(),
		UserID:      s.userID,
		CreatedAt:   s.timeNow(),
		Name:        payload.Name,
		Description: payload.Description,
		IsExpanded:  true,
	}

	applied, err := s.mutate(ctx, "add_group",
		func() error {
			s.groups = append(s.groups, group)
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.CreateGroup(ctx, group)
		},
		func() {
			s.groups = removeGroupByID(s.groups, group.ID)
		},
	)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, nil
	}
	return group.Clone(), nil
}

// UpdateGroup merges the partial update into the local group and
// persists it; on failure the pre-edit group is restored.
func (s *Session) UpdateGroup(ctx context.Context, id string, patch domain.GroupPatch) error {
	var snapshot *domain.Group

	_, err := s.mutate(ctx, "update_group",
		func() error {
			group := findGroup(s.groups, id)
			if group == nil {
				return ErrNotFound
			}
			snapshot = group.Clone()
			patch.Apply(group)
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.UpdateGroup(ctx, s.userID, id, patch)
		},
		func() {
			s.groups = replaceGroup(s.groups, snapshot)
		},
	)
	return err
}

// DeleteGroup removes the group locally and persists a soft delete.
func (s *Session) DeleteGroup(ctx context.Context, id string) error {
	var snapshot *domain.Group

	_, err := s.mutate(ctx, "delete_group",
		func() error {
			group := findGroup(s.groups, id)
			if group == nil {
				return ErrNotFound
			}
			snapshot = group
			s.groups = removeGroupByID(s.groups, id)
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.DeleteGroup(ctx, s.userID, id, s.timeNow())
		},
		func() {
			s.groups = append(s.groups, snapshot)
			domain.SortGroupsByCreation(s.groups)
		},
	)
	return err
}

// ToggleGroupExpansion flips the expanded/collapsed flag and persists
// only that field.
func (s *Session) ToggleGroupExpansion(ctx context.Context, id string) error {
	var (
		snapshot *domain.Group
		expanded bool
	)

	_, err := s.mutate(ctx, "toggle_group",
		func() error {
			group := findGroup(s.groups, id)
			if group == nil {
				return ErrNotFound
			}
			snapshot = group.Clone()
			group.IsExpanded = !group.IsExpanded
			expanded = group.IsExpanded
			return nil
		},
		func(ctx context.Context) error {
			return s.remote.UpdateGroup(ctx, s.userID, id, domain.GroupPatch{IsExpanded: &expanded})
		},
		func() {
			s.groups = replaceGroup(s.groups, snapshot)
		},
	)
	return err
}

// ─────────────────────────────────────────────────────────────────
// Local list helpers (callers hold s.mu)
// ─────────────────────────────────────────────────────────────────

func findEntry(entries []*domain.Entry, id string) *domain.Entry {
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func removeEntryByID(entries []*domain.Entry, id string) []*domain.Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func replaceEntry(entries []*domain.Entry, entry *domain.Entry) []*domain.Entry {
	for i, e := range entries {
		if e.ID == entry.ID {
			entries[i] = entry
			return entries
		}
	}
	return append(entries, entry)
}

func findGroup(groups []*domain.Group, id string) *domain.Group {
	for _, g := range groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func removeGroupByID(groups []*domain.Group, id string) []*domain.Group {
	out := groups[:0]
	for _, g := range groups {
		if g.ID != id {
			out = append(out, g)
		}
	}
	return out
}

func replaceGroup(groups []*domain.Group, group *domain.Group) []*domain.Group {
	for i, g := range groups {
		if g.ID == group.ID {
			groups[i] = group
			return groups
		}
	}
	return append(groups, group)
}
