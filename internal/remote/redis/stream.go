package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

// entryEvent is the wire envelope for one entry change record.
type entryEvent struct {
	Kind string   `json:"kind"`
	Doc  entryDoc `json:"doc"`
}

// groupEvent is the wire envelope for one group change record.
type groupEvent struct {
	Kind string   `json:"kind"`
	Doc  groupDoc `json:"doc"`
}

// publishEntryChange broadcasts a change record to every session of
// the user, including the writer's own (the echo is expected and
// folded in by the reconciler). Best effort: the write itself has
// already succeeded.
func (s *Store) publishEntryChange(ctx context.Context, userID string, kind remote.ChangeKind, e *domain.Entry) {
	data, err := json.Marshal(entryEvent{Kind: string(kind), Doc: encodeEntry(e)})
	if err != nil {
		s.logger.Warn("failed to marshal entry change",
			logger.String("entry_id", e.ID),
			logger.Error(err))
		return
	}
	if err := s.client.Publish(ctx, EntryChannel(userID), data).Err(); err != nil {
		s.logger.Warn("failed to publish entry change",
			logger.String("entry_id", e.ID),
			logger.Error(err))
	}
}

func (s *Store) publishGroupChange(ctx context.Context, userID string, kind remote.ChangeKind, g *domain.Group) {
	data, err := json.Marshal(groupEvent{Kind: string(kind), Doc: encodeGroup(g)})
	if err != nil {
		s.logger.Warn("failed to marshal group change",
			logger.String("group_id", g.ID),
			logger.Error(err))
		return
	}
	if err := s.client.Publish(ctx, GroupChannel(userID), data).Err(); err != nil {
		s.logger.Warn("failed to publish group change",
			logger.String("group_id", g.ID),
			logger.Error(err))
	}
}

type entryWatch struct {
	pubsub *goredis.PubSub
	ch     chan []remote.EntryChange
}

func (w *entryWatch) Changes() <-chan []remote.EntryChange { return w.ch }
func (w *entryWatch) Close() error                         { return w.pubsub.Close() }

type groupWatch struct {
	pubsub *goredis.PubSub
	ch     chan []remote.GroupChange
}

func (w *groupWatch) Changes() <-chan []remote.GroupChange { return w.ch }
func (w *groupWatch) Close() error                         { return w.pubsub.Close() }

// WatchEntries opens the long-lived change subscription for a user's
// entries. Undecodable records are logged and skipped; the channel is
// closed when the watch is closed.
func (s *Store) WatchEntries(ctx context.Context, userID string) (remote.EntryWatch, error) {
	pubsub := s.client.Subscribe(ctx, EntryChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to entry changes: %w", err)
	}

	w := &entryWatch{
		pubsub: pubsub,
		ch:     make(chan []remote.EntryChange, 16),
	}

	go func() {
		defer close(w.ch)
		for msg := range pubsub.Channel() {
			change, err := decodeEntryEvent(msg.Payload)
			if err != nil {
				s.logger.Warn("dropping undecodable entry change",
					logger.String("user_id", userID),
					logger.Error(err))
				continue
			}
			w.ch <- []remote.EntryChange{change}
		}
	}()

	return w, nil
}

// WatchGroups opens the long-lived change subscription for a user's groups.
func (s *Store) WatchGroups(ctx context.Context, userID string) (remote.GroupWatch, error) {
	pubsub := s.client.Subscribe(ctx, GroupChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to group changes: %w", err)
	}

	w := &groupWatch{
		pubsub: pubsub,
		ch:     make(chan []remote.GroupChange, 16),
	}

	go func() {
		defer close(w.ch)
		for msg := range pubsub.Channel() {
			change, err := decodeGroupEvent(msg.Payload)
			if err != nil {
				s.logger.Warn("dropping undecodable group change",
					logger.String("user_id", userID),
					logger.Error(err))
				continue
			}
			w.ch <- []remote.GroupChange{change}
		}
	}()

	return w, nil
}

func decodeEntryEvent(payload string) (remote.EntryChange, error) {
	var ev entryEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return remote.EntryChange{}, fmt.Errorf("failed to unmarshal entry event: %w", err)
	}

	kind := remote.ChangeKind(ev.Kind)
	if kind == remote.ChangeRemoved {
		// Removal records carry only the identity fields.
		return remote.EntryChange{
			Kind:  kind,
			Entry: &domain.Entry{ID: ev.Doc.ID, UserID: ev.Doc.UserID},
		}, nil
	}

	entry, err := decodeEntry(ev.Doc)
	if err != nil {
		return remote.EntryChange{}, err
	}
	return remote.EntryChange{Kind: kind, Entry: entry}, nil
}

func decodeGroupEvent(payload string) (remote.GroupChange, error) {
	var ev groupEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return remote.GroupChange{}, fmt.Errorf("failed to unmarshal group event: %w", err)
	}

	kind := remote.ChangeKind(ev.Kind)
	if kind == remote.ChangeRemoved {
		return remote.GroupChange{
			Kind:  kind,
			Group: &domain.Group{ID: ev.Doc.ID, UserID: ev.Doc.UserID},
		}, nil
	}

	group, err := decodeGroup(ev.Doc)
	if err != nil {
		return remote.GroupChange{}, err
	}
	return remote.GroupChange{Kind: kind, Group: group}, nil
}
