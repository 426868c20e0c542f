package redis

import (
	"fmt"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
)

// wireTimeLayout is the on-the-wire timestamp format: ISO-8601 with
// millisecond precision, always UTC. Matches what browser clients
// produce with Date.toISOString().
const wireTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func encodeWireTime(t time.Time) string {
	return t.UTC().Format(wireTimeLayout)
}

func decodeWireTime(s string) (time.Time, error) {
	// time.Parse with the RFC3339 layout accepts any fractional-second
	// precision, so documents written by older clients still decode.
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid wire timestamp %q: %w", s, err)
	}
	return t, nil
}

// entryDoc is the persisted document shape for a bookmark entry.
type entryDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Preview     string   `json:"preview,omitempty"`
	Favicon     string   `json:"favicon,omitempty"`
	Tags        []string `json:"tags"`
	Visits      int64    `json:"visits"`
	LastVisit   string   `json:"lastVisit,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UserID      string   `json:"userId"`
	Deleted     bool     `json:"deleted,omitempty"`
	DeletedAt   string   `json:"deletedAt,omitempty"`
}

// groupDoc is the persisted document shape for a group.
type groupDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsExpanded  bool   `json:"isExpanded,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UserID      string `json:"userId"`
	Deleted     bool   `json:"deleted,omitempty"`
	DeletedAt   string `json:"deletedAt,omitempty"`
}

func encodeEntry(e *domain.Entry) entryDoc {
	doc := entryDoc{
		ID:          e.ID,
		Title:       e.Title,
		URL:         e.URL,
		Description: e.Description,
		Preview:     e.Preview,
		Favicon:     e.Favicon,
		Tags:        e.Tags,
		Visits:      e.Visits,
		CreatedAt:   encodeWireTime(e.CreatedAt),
		UserID:      e.UserID,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if e.LastVisit != nil {
		doc.LastVisit = encodeWireTime(*e.LastVisit)
	}
	if e.Deleted != nil {
		doc.Deleted = true
		doc.DeletedAt = encodeWireTime(e.Deleted.At)
	}
	return doc
}

func decodeEntry(doc entryDoc) (*domain.Entry, error) {
	createdAt, err := decodeWireTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", doc.ID, err)
	}

	e := &domain.Entry{
		ID:          doc.ID,
		Title:       doc.Title,
		URL:         doc.URL,
		Description: doc.Description,
		Preview:     doc.Preview,
		Favicon:     doc.Favicon,
		Tags:        doc.Tags,
		Visits:      doc.Visits,
		CreatedAt:   createdAt,
		UserID:      doc.UserID,
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if doc.LastVisit != "" {
		lv, err := decodeWireTime(doc.LastVisit)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", doc.ID, err)
		}
		e.LastVisit = &lv
	}
	if doc.Deleted {
		at := createdAt
		if doc.DeletedAt != "" {
			at, err = decodeWireTime(doc.DeletedAt)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", doc.ID, err)
			}
		}
		e.Deleted = &domain.Deletion{At: at}
	}
	return e, nil
}

func encodeGroup(g *domain.Group) groupDoc {
	doc := groupDoc{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		IsExpanded:  g.IsExpanded,
		CreatedAt:   encodeWireTime(g.CreatedAt),
		UserID:      g.UserID,
	}
	if g.Deleted != nil {
		doc.Deleted = true
		doc.DeletedAt = encodeWireTime(g.Deleted.At)
	}
	return doc
}

func decodeGroup(doc groupDoc) (*domain.Group, error) {
	createdAt, err := decodeWireTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", doc.ID, err)
	}

	g := &domain.Group{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		IsExpanded:  doc.IsExpanded,
		CreatedAt:   createdAt,
		UserID:      doc.UserID,
	}
	if doc.Deleted {
		at := createdAt
		if doc.DeletedAt != "" {
			at, err = decodeWireTime(doc.DeletedAt)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", doc.ID, err)
			}
		}
		g.Deleted = &domain.Deletion{At: at}
	}
	return g, nil
}
