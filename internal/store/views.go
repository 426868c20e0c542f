package store

import (
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
)

// Derived views. All are pure reads over the session's local state;
// tombstoned entries never appear in any of them, even in the window
// between an optimistic removal and the remote soft-delete completing.

// Entries returns the user's non-deleted entries in creation order.
func (s *Session) Entries() []*domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneActive(s.entries)
}

// Groups returns the user's non-deleted groups in creation order.
func (s *Session) Groups() []*domain.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Group, 0, len(s.groups))
	for _, g := range s.groups {
		if g.IsDeleted() {
			continue
		}
		out = append(out, g.Clone())
	}
	return out
}

// Entry returns one entry by ID, or nil if absent or deleted.
func (s *Session) Entry(id string) *domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := findEntry(s.entries, id)
	if e == nil || e.IsDeleted() {
		return nil
	}
	return e.Clone()
}

// MostVisited returns up to limit entries sorted by visit count
// descending, most recent visit first on ties.
func (s *Session) MostVisited(limit int) []*domain.Entry {
	s.mu.RLock()
	entries := cloneActive(s.entries)
	s.mu.RUnlock()

	return domain.MostVisited(entries, limit)
}

// Recent returns up to limit entries sorted by last visit (falling
// back to creation time) descending.
func (s *Session) Recent(limit int) []*domain.Entry {
	s.mu.RLock()
	entries := cloneActive(s.entries)
	s.mu.RUnlock()

	return domain.Recent(entries, limit)
}

// DistinctTags returns the set of tags in use across the user's
// non-deleted entries.
func (s *Session) DistinctTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DistinctTags(s.entries)
}

// ByTag returns the non-deleted entries carrying the given tag.
func (s *Session) ByTag(tag string) []*domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.IsDeleted() {
			continue
		}
		if domain.HasTag(e, tag) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Search ranks the user's entries against a free-text query.
func (s *Session) Search(query string, limit int) []*domain.Entry {
	s.mu.RLock()
	entries := cloneActive(s.entries)
	s.mu.RUnlock()

	candidates := domain.RankCandidates(query, entries)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*domain.Entry, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Entry)
	}
	return out
}

func cloneActive(entries []*domain.Entry) []*domain.Entry {
	out := make([]*domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDeleted() {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}
