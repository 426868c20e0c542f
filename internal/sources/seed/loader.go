package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

// Loader handles loading and applying a seed YAML file
type Loader struct {
	filePath string
	userID   string
	store    remote.Store
	logger   logger.Logger
}

// NewLoader creates a new seed loader for one user
func NewLoader(filePath, userID string, store remote.Store, log logger.Logger) *Loader {
	return &Loader{
		filePath: filePath,
		userID:   userID,
		store:    store,
		logger:   log,
	}
}

// Load reads and parses the seed file
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	for i, e := range file.Entries {
		if e.Title == "" || e.URL == "" {
			return nil, fmt.Errorf("seed entry %d: title and url are required", i)
		}
	}
	for i, g := range file.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("seed group %d: name is required", i)
		}
	}

	return &file, nil
}

// Apply loads the seed file and creates the entries and groups the
// user does not already have. Existing URLs and group names are left
// untouched, so applying the same file twice is safe.
func (l *Loader) Apply(ctx context.Context) error {
	file, err := l.Load()
	if err != nil {
		return err
	}

	existing, err := l.store.LoadEntries(ctx, l.userID)
	if err != nil {
		return fmt.Errorf("failed to load existing entries: %w", err)
	}
	knownURLs := make(map[string]bool, len(existing))
	for _, e := range existing {
		knownURLs[e.URL] = true
	}

	groups, err := l.store.LoadGroups(ctx, l.userID)
	if err != nil {
		return fmt.Errorf("failed to load existing groups: %w", err)
	}
	knownGroups := make(map[string]bool, len(groups))
	for _, g := range groups {
		knownGroups[g.Name] = true
	}

	now := time.Now()
	entriesAdded := 0
	for _, spec := range file.Entries {
		if knownURLs[spec.URL] {
			continue
		}
		entry := &domain.Entry{
			ID:          uuid.NewString(),
			UserID:      l.userID,
			CreatedAt:   now,
			Title:       spec.Title,
			URL:         spec.URL,
			Description: spec.Description,
			Favicon:     spec.Favicon,
			Tags:        domain.NormalizeTags(spec.Tags),
		}
		if err := l.store.CreateEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed entry %s: %w", spec.URL, err)
		}
		entriesAdded++
	}

	groupsAdded := 0
	for _, spec := range file.Groups {
		if knownGroups[spec.Name] {
			continue
		}
		group := &domain.Group{
			ID:          uuid.NewString(),
			UserID:      l.userID,
			CreatedAt:   now,
			Name:        spec.Name,
			Description: spec.Description,
			IsExpanded:  true,
		}
		if err := l.store.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to seed group %s: %w", spec.Name, err)
		}
		groupsAdded++
	}

	l.logger.Info("seed applied",
		logger.String("user_id", l.userID),
		logger.Int("entries_added", entriesAdded),
		logger.Int("groups_added", groupsAdded))

	return nil
}
