package store

import (
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

// Reconciliation folds remote change batches into local state without
// discarding concurrent local edits outright: each record overwrites
// or removes only the entry it names, and the whole batch replaces the
// list atomically. A rollback racing a delayed success echo is
// resolved by last-write-wins on local state, which at worst produces
// a redundant overwrite with identical data.

// applyEntryChanges folds one change batch into the entry list and
// returns the new list, sorted by creation time ascending.
func applyEntryChanges(local []*domain.Entry, batch []remote.EntryChange) []*domain.Entry {
	out := make([]*domain.Entry, len(local))
	copy(out, local)

	for _, change := range batch {
		if change.Entry == nil {
			continue
		}
		id := change.Entry.ID

		// A remote tombstone always removes the local entry.
		if change.Entry.IsDeleted() {
			out = removeEntryByID(out, id)
			continue
		}

		switch change.Kind {
		case remote.ChangeAdded, remote.ChangeModified:
			// Overwrite in place; append when absent. For "modified"
			// the append is a defensive fallback.
			out = replaceEntry(out, change.Entry)
		case remote.ChangeRemoved:
			out = removeEntryByID(out, id)
		}
	}

	domain.SortByCreation(out)
	return out
}

// applyGroupChanges folds one change batch into the group list.
func applyGroupChanges(local []*domain.Group, batch []remote.GroupChange) []*domain.Group {
	out := make([]*domain.Group, len(local))
	copy(out, local)

	for _, change := range batch {
		if change.Group == nil {
			continue
		}
		id := change.Group.ID

		if change.Group.IsDeleted() {
			out = removeGroupByID(out, id)
			continue
		}

		switch change.Kind {
		case remote.ChangeAdded, remote.ChangeModified:
			out = replaceGroup(out, change.Group)
		case remote.ChangeRemoved:
			out = removeGroupByID(out, id)
		}
	}

	domain.SortGroupsByCreation(out)
	return out
}

// consumeEntryChanges drains the entry subscription and folds each
// batch into local state. The subscription ending (channel close) is
// logged only; no resubscription is attempted.
func (s *Session) consumeEntryChanges(watch remote.EntryWatch) {
	defer s.wg.Done()

	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	for {
		select {
		case batch, ok := <-watch.Changes():
			if !ok {
				s.logger.Warn("entry change subscription ended",
					logger.String("user_id", s.userID))
				return
			}
			s.mu.Lock()
			if s.state == StateSubscribed {
				s.entries = applyEntryChanges(s.entries, batch)
			}
			s.mu.Unlock()
		case <-done:
			return
		}
	}
}

// consumeGroupChanges drains the group subscription.
func (s *Session) consumeGroupChanges(watch remote.GroupWatch) {
	defer s.wg.Done()

	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	for {
		select {
		case batch, ok := <-watch.Changes():
			if !ok {
				s.logger.Warn("group change subscription ended",
					logger.String("user_id", s.userID))
				return
			}
			s.mu.Lock()
			if s.state == StateSubscribed {
				s.groups = applyGroupChanges(s.groups, batch)
			}
			s.mu.Unlock()
		case <-done:
			return
		}
	}
}
