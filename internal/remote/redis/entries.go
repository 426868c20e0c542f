package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

// LoadEntries retrieves all non-deleted entries for a user.
// This is the initial batched read performed on sign-in.
func (s *Store) LoadEntries(ctx context.Context, userID string) ([]*domain.Entry, error) {
	ids, err := s.client.SMembers(ctx, EntrySetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry IDs: %w", err)
	}

	entries := make([]*domain.Entry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.getEntry(ctx, userID, id)
		if err != nil {
			// Skip entries that couldn't be retrieved
			continue
		}
		if entry.IsDeleted() {
			continue
		}
		entries = append(entries, entry)
	}

	domain.SortByCreation(entries)
	return entries, nil
}

// CreateEntry persists a new entry document and publishes an "added"
// change record on the user's entry channel.
func (s *Store) CreateEntry(ctx context.Context, e *domain.Entry) error {
	if err := s.putEntry(ctx, e); err != nil {
		return err
	}
	s.publishEntryChange(ctx, e.UserID, remote.ChangeAdded, e)
	return nil
}

// RecordVisit persists only the visit counter and last-visit timestamp
// of an existing entry, then publishes a "modified" change record.
func (s *Store) RecordVisit(ctx context.Context, userID, id string, visits int64, lastVisit time.Time) error {
	entry, err := s.getEntry(ctx, userID, id)
	if err != nil {
		return err
	}

	entry.Visits = visits
	lv := lastVisit
	entry.LastVisit = &lv

	if err := s.putEntry(ctx, entry); err != nil {
		return err
	}
	s.publishEntryChange(ctx, userID, remote.ChangeModified, entry)
	return nil
}

// UpdateEntry merges a partial update into an existing entry document.
// Identity, ownership, creation time and the visit counter cannot be
// expressed in the patch, so they are never overwritten.
func (s *Store) UpdateEntry(ctx context.Context, userID, id string, patch domain.EntryPatch) error {
	entry, err := s.getEntry(ctx, userID, id)
	if err != nil {
		return err
	}

	patch.Apply(entry)

	if err := s.putEntry(ctx, entry); err != nil {
		return err
	}
	s.publishEntryChange(ctx, userID, remote.ChangeModified, entry)
	return nil
}

// DeleteEntry writes a soft-delete tombstone rather than physically
// removing the document, so other sessions observe the deletion
// through the change stream.
func (s *Store) DeleteEntry(ctx context.Context, userID, id string, at time.Time) error {
	entry, err := s.getEntry(ctx, userID, id)
	if err != nil {
		return err
	}

	entry.Deleted = &domain.Deletion{At: at}

	if err := s.putEntry(ctx, entry); err != nil {
		return err
	}
	s.publishEntryChange(ctx, userID, remote.ChangeModified, entry)
	return nil
}

// PurgeEntry physically removes an entry document (used by the
// tombstone garbage collector) and publishes a "removed" change record.
func (s *Store) PurgeEntry(ctx context.Context, userID, id string) error {
	if err := s.client.Del(ctx, EntryKey(userID, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if err := s.client.SRem(ctx, EntrySetKey(userID), id).Err(); err != nil {
		return fmt.Errorf("failed to remove entry from set: %w", err)
	}
	s.publishEntryChange(ctx, userID, remote.ChangeRemoved, &domain.Entry{ID: id, UserID: userID})
	return nil
}

// EntryTombstones retrieves all soft-deleted entries for a user.
func (s *Store) EntryTombstones(ctx context.Context, userID string) ([]*domain.Entry, error) {
	ids, err := s.client.SMembers(ctx, EntrySetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry IDs: %w", err)
	}

	tombstones := make([]*domain.Entry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.getEntry(ctx, userID, id)
		if err != nil {
			continue
		}
		if !entry.IsDeleted() {
			continue
		}
		tombstones = append(tombstones, entry)
	}

	return tombstones, nil
}

// getEntry retrieves and decodes one entry document.
func (s *Store) getEntry(ctx context.Context, userID, id string) (*domain.Entry, error) {
	data, err := s.client.Get(ctx, EntryKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, remote.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var doc entryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	return decodeEntry(doc)
}

// putEntry encodes and stores one entry document.
func (s *Store) putEntry(ctx context.Context, e *domain.Entry) error {
	data, err := json.Marshal(encodeEntry(e))
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if err := s.client.Set(ctx, EntryKey(e.UserID, e.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	if err := s.client.SAdd(ctx, EntrySetKey(e.UserID), e.ID).Err(); err != nil {
		return fmt.Errorf("failed to add entry to set: %w", err)
	}
	if err := s.client.SAdd(ctx, KeyAllUsers, e.UserID).Err(); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	return nil
}
