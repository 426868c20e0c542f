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

// LoadGroups retrieves all non-deleted groups for a user.
func (s *Store) LoadGroups(ctx context.Context, userID string) ([]*domain.Group, error) {
	ids, err := s.client.SMembers(ctx, GroupSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get group IDs: %w", err)
	}

	groups := make([]*domain.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.getGroup(ctx, userID, id)
		if err != nil {
			// Skip groups that couldn't be retrieved
			continue
		}
		if group.IsDeleted() {
			continue
		}
		groups = append(groups, group)
	}

	domain.SortGroupsByCreation(groups)
	return groups, nil
}

// CreateGroup persists a new group document and publishes an "added"
// change record on the user's group channel.
func (s *Store) CreateGroup(ctx context.Context, g *domain.Group) error {
	if err := s.putGroup(ctx, g); err != nil {
		return err
	}
	s.publishGroupChange(ctx, g.UserID, remote.ChangeAdded, g)
	return nil
}

// UpdateGroup merges a partial update into an existing group document.
func (s *Store) UpdateGroup(ctx context.Context, userID, id string, patch domain.GroupPatch) error {
	group, err := s.getGroup(ctx, userID, id)
	if err != nil {
		return err
	}

	patch.Apply(group)

	if err := s.putGroup(ctx, group); err != nil {
		return err
	}
	s.publishGroupChange(ctx, userID, remote.ChangeModified, group)
	return nil
}

// DeleteGroup writes a soft-delete tombstone.
func (s *Store) DeleteGroup(ctx context.Context, userID, id string, at time.Time) error {
	group, err := s.getGroup(ctx, userID, id)
	if err != nil {
		return err
	}

	group.Deleted = &domain.Deletion{At: at}

	if err := s.putGroup(ctx, group); err != nil {
		return err
	}
	s.publishGroupChange(ctx, userID, remote.ChangeModified, group)
	return nil
}

// PurgeGroup physically removes a group document (used by the
// tombstone garbage collector).
func (s *Store) PurgeGroup(ctx context.Context, userID, id string) error {
	if err := s.client.Del(ctx, GroupKey(userID, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if err := s.client.SRem(ctx, GroupSetKey(userID), id).Err(); err != nil {
		return fmt.Errorf("failed to remove group from set: %w", err)
	}
	s.publishGroupChange(ctx, userID, remote.ChangeRemoved, &domain.Group{ID: id, UserID: userID})
	return nil
}

// GroupTombstones retrieves all soft-deleted groups for a user.
func (s *Store) GroupTombstones(ctx context.Context, userID string) ([]*domain.Group, error) {
	ids, err := s.client.SMembers(ctx, GroupSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get group IDs: %w", err)
	}

	tombstones := make([]*domain.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.getGroup(ctx, userID, id)
		if err != nil {
			continue
		}
		if !group.IsDeleted() {
			continue
		}
		tombstones = append(tombstones, group)
	}

	return tombstones, nil
}

// Users returns all user IDs that own at least one document.
func (s *Store) Users(ctx context.Context) ([]string, error) {
	users, err := s.client.SMembers(ctx, KeyAllUsers).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (s *Store) getGroup(ctx context.Context, userID, id string) (*domain.Group, error) {
	data, err := s.client.Get(ctx, GroupKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, remote.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	var doc groupDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	return decodeGroup(doc)
}

func (s *Store) putGroup(ctx context.Context, g *domain.Group) error {
	data, err := json.Marshal(encodeGroup(g))
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	if err := s.client.Set(ctx, GroupKey(g.UserID, g.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}
	if err := s.client.SAdd(ctx, GroupSetKey(g.UserID), g.ID).Err(); err != nil {
		return fmt.Errorf("failed to add group to set: %w", err)
	}
	if err := s.client.SAdd(ctx, KeyAllUsers, g.UserID).Err(); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	return nil
}
