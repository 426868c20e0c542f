package store

import (
	"context"
	"fmt"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
)

// ImportedEntry is one entry in a bulk import. Unlike NewEntry it
// carries a pre-existing visit history from the source.
type ImportedEntry struct {
	Title     string
	URL       string
	Favicon   string
	Tags      []string
	Visits    int64
	LastVisit *time.Time
}

// ImportEntries adds a batch of entries as a unit. The whole batch is
// validated before anything is written; if a remote write fails partway
// through, entries already written are removed again so the import
// never lands partially. URLs already present in the session are
// skipped, not duplicated.
func (s *Session) ImportEntries(ctx context.Context, batch []ImportedEntry) ([]*domain.Entry, error) {
	for i, item := range batch {
		if item.URL == "" {
			return nil, fmt.Errorf("import item %d: empty url", i)
		}
		if item.Title == "" {
			return nil, fmt.Errorf("import item %d (%s): empty title", i, item.URL)
		}
		if item.Visits < 0 {
			return nil, fmt.Errorf("import item %d (%s): negative visit count", i, item.URL)
		}
	}

	s.mu.Lock()
	if s.state == StateSignedOut {
		s.mu.Unlock()
		return nil, nil
	}
	existing := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		existing[e.URL] = true
	}

	imported := make([]*domain.Entry, 0, len(batch))
	for _, item := range batch {
		if existing[item.URL] {
			continue
		}
		existing[item.URL] = true
		entry := &domain.Entry{
			ID:        s.newID(),
			UserID:    s.userID,
			CreatedAt: s.timeNow(),
			Title:     item.Title,
			URL:       item.URL,
			Favicon:   item.Favicon,
			Tags:      domain.NormalizeTags(item.Tags),
			Visits:    item.Visits,
		}
		if item.LastVisit != nil {
			lv := *item.LastVisit
			entry.LastVisit = &lv
		}
		s.entries = append(s.entries, entry)
		imported = append(imported, entry)
	}
	s.mu.Unlock()

	for i, entry := range imported {
		if err := s.remote.CreateEntry(ctx, entry); err != nil {
			s.logger.Warn("import write failed, rolling back batch",
				logger.String("user_id", s.userID),
				logger.Int("written", i),
				logger.Int("batch", len(imported)),
				logger.Error(err))
			s.revertImport(ctx, imported, i)
			return nil, err
		}
	}

	out := make([]*domain.Entry, len(imported))
	for i, entry := range imported {
		out[i] = entry.Clone()
	}
	return out, nil
}

// revertImport removes the whole attempted batch from local state and
// soft-deletes the first written entries that did reach the remote.
func (s *Session) revertImport(ctx context.Context, imported []*domain.Entry, written int) {
	s.mu.Lock()
	for _, entry := range imported {
		s.entries = removeEntryByID(s.entries, entry.ID)
	}
	s.mu.Unlock()

	for _, entry := range imported[:written] {
		if err := s.remote.DeleteEntry(ctx, s.userID, entry.ID, s.timeNow()); err != nil {
			s.logger.Warn("import rollback delete failed",
				logger.String("user_id", s.userID),
				logger.String("entry_id", entry.ID),
				logger.Error(err))
		}
	}
}
