// Package remote defines the persistence adapter contract between the
// per-user session store and the hosted document store. Implementations
// persist one JSON document per entry/group under a per-user namespace
// and expose a realtime change stream per collection.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("remote: document not found")

// ChangeKind classifies a change-stream record.
type ChangeKind string

const (
	// ChangeAdded is delivered when a document is created.
	ChangeAdded ChangeKind = "added"
	// ChangeModified is delivered when a document is updated,
	// including soft-delete tombstone writes.
	ChangeModified ChangeKind = "modified"
	// ChangeRemoved is delivered when a document is hard-deleted.
	ChangeRemoved ChangeKind = "removed"
)

// EntryChange is one change-stream record for the entries collection.
// For ChangeRemoved only the entry ID is meaningful.
type EntryChange struct {
	Kind  ChangeKind
	Entry *domain.Entry
}

// GroupChange is one change-stream record for the groups collection.
type GroupChange struct {
	Kind  ChangeKind
	Group *domain.Group
}

// EntryWatch is a long-lived subscription to a user's entry changes.
// The channel delivers batches of change records, including echoes of
// this client's own writes. The channel is closed when the watch ends.
type EntryWatch interface {
	Changes() <-chan []EntryChange
	Close() error
}

// GroupWatch is a long-lived subscription to a user's group changes.
type GroupWatch interface {
	Changes() <-chan []GroupChange
	Close() error
}

// Store is the remote persistence adapter.
// All operations are scoped to a single owning user; cross-user access
// is never attempted by callers.
type Store interface {
	// LoadEntries performs the initial batched read of all
	// non-deleted entries for the user.
	LoadEntries(ctx context.Context, userID string) ([]*domain.Entry, error)

	// LoadGroups performs the initial batched read of all
	// non-deleted groups for the user.
	LoadGroups(ctx context.Context, userID string) ([]*domain.Group, error)

	// CreateEntry persists a new entry document.
	CreateEntry(ctx context.Context, e *domain.Entry) error

	// RecordVisit persists only the visit counter and last-visit
	// timestamp of an existing entry.
	RecordVisit(ctx context.Context, userID, id string, visits int64, lastVisit time.Time) error

	// UpdateEntry merges the patch into an existing entry document.
	// Only client-writable fields are representable in the patch.
	UpdateEntry(ctx context.Context, userID, id string, patch domain.EntryPatch) error

	// DeleteEntry soft-deletes an entry (tombstone write, no physical
	// removal) so other sessions can observe the deletion.
	DeleteEntry(ctx context.Context, userID, id string, at time.Time) error

	// CreateGroup persists a new group document.
	CreateGroup(ctx context.Context, g *domain.Group) error

	// UpdateGroup merges the patch into an existing group document.
	UpdateGroup(ctx context.Context, userID, id string, patch domain.GroupPatch) error

	// DeleteGroup soft-deletes a group.
	DeleteGroup(ctx context.Context, userID, id string, at time.Time) error

	// WatchEntries opens the change subscription for the user's entries.
	WatchEntries(ctx context.Context, userID string) (EntryWatch, error)

	// WatchGroups opens the change subscription for the user's groups.
	WatchGroups(ctx context.Context, userID string) (GroupWatch, error)
}
