package domain

import (
	"sort"
	"time"
)

// Ranking uses plain visit counts with a most-recent-visit
// tie-break. An earlier iteration of the launcher used a decaying
// score (visits * 0.9^hours-since-visit); the shipped behavior is
// the raw counter, so only that is implemented here.

// MostVisited returns the non-deleted entries sorted by visit count
// descending, most recent visit first on ties, truncated to limit.
// A limit <= 0 means no truncation.
func MostVisited(entries []*Entry, limit int) []*Entry {
	out := activeEntries(entries)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Visits != out[j].Visits {
			return out[i].Visits > out[j].Visits
		}
		return lastActivity(out[i]).After(lastActivity(out[j]))
	})

	return truncate(out, limit)
}

// Recent returns the non-deleted entries sorted by last visit
// (falling back to creation time) descending, truncated to limit.
func Recent(entries []*Entry, limit int) []*Entry {
	out := activeEntries(entries)

	sort.SliceStable(out, func(i, j int) bool {
		return lastActivity(out[i]).After(lastActivity(out[j]))
	})

	return truncate(out, limit)
}

// SortByCreation sorts entries by creation time ascending, in place.
// This is the canonical ordering of the local entry list.
func SortByCreation(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

// SortGroupsByCreation sorts groups by creation time ascending, in place.
func SortGroupsByCreation(groups []*Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
}

// lastActivity returns the last visit time, or the creation time for
// entries that were never visited.
func lastActivity(e *Entry) time.Time {
	if e.LastVisit != nil {
		return *e.LastVisit
	}
	return e.CreatedAt
}

func activeEntries(entries []*Entry) []*Entry {
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDeleted() {
			continue
		}
		out = append(out, e)
	}
	return out
}

func truncate(entries []*Entry, limit int) []*Entry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
