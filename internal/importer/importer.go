// Package importer brings browsing history from a browser extension
// into a user's entry list as a single all-or-nothing batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/store"
)

// ErrSourceTimeout is returned when the site source does not answer
// within the configured deadline.
var ErrSourceTimeout = errors.New("importer: source timed out")

// Site is one candidate from the browser's most-visited history.
// LastVisit is epoch milliseconds, the unit browser history APIs use.
type Site struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	VisitCount int64  `json:"visitCount"`
	LastVisit  int64  `json:"lastVisitTime,omitempty"`
	Selected   *bool  `json:"selected,omitempty"`
}

// SitesResponse is the answer to a frequent-sites request.
type SitesResponse struct {
	Success bool   `json:"success"`
	Sites   []Site `json:"sites,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Source produces the frequent-sites candidates for an import.
type Source interface {
	FrequentSites(ctx context.Context) (*SitesResponse, error)
}

// Importer runs imports against per-user sessions.
type Importer struct {
	source  Source
	timeout time.Duration
	logger  logger.Logger
}

// New creates an importer. source may be nil when candidates always
// arrive with the request instead of being fetched.
func New(source Source, timeout time.Duration, log logger.Logger) *Importer {
	return &Importer{source: source, timeout: timeout, logger: log}
}

// Import fetches candidates from the source and imports the selected
// ones. A source that exceeds the deadline fails the whole import.
func (i *Importer) Import(ctx context.Context, sess *store.Session) ([]*domain.Entry, error) {
	if i.source == nil {
		return nil, errors.New("importer: no site source configured")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	resp, err := i.source.FrequentSites(fetchCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			i.logger.Warn("site source timed out",
				logger.Duration("timeout", i.timeout))
			return nil, ErrSourceTimeout
		}
		return nil, fmt.Errorf("importer: source failed: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("importer: source refused: %s", resp.Error)
	}

	return i.ImportSites(ctx, sess, resp.Sites)
}

// ImportSites imports the selected sites into the session. Sites with
// Selected unset count as selected.
func (i *Importer) ImportSites(ctx context.Context, sess *store.Session, sites []Site) ([]*domain.Entry, error) {
	batch := make([]store.ImportedEntry, 0, len(sites))
	for _, site := range sites {
		if site.Selected != nil && !*site.Selected {
			continue
		}
		item := store.ImportedEntry{
			Title:  site.Title,
			URL:    site.URL,
			Tags:   []string{"imported"},
			Visits: site.VisitCount,
		}
		if site.LastVisit > 0 {
			lv := time.UnixMilli(site.LastVisit).UTC()
			item.LastVisit = &lv
		}
		batch = append(batch, item)
	}
	if len(batch) == 0 {
		return nil, nil
	}

	imported, err := sess.ImportEntries(ctx, batch)
	if err != nil {
		return nil, err
	}
	i.logger.Info("import finished",
		logger.String("user_id", sess.UserID()),
		logger.Int("selected", len(batch)),
		logger.Int("imported", len(imported)))
	return imported, nil
}
