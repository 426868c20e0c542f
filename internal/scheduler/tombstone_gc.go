package scheduler

import (
	"context"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
)

const (
	// DefaultGCThreshold is the tombstone age after which soft-deleted
	// entries and groups are permanently removed
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// TombstoneStore is the persistence surface the collector sweeps.
// Satisfied by the Redis-backed remote store.
type TombstoneStore interface {
	Users(ctx context.Context) ([]string, error)
	EntryTombstones(ctx context.Context, userID string) ([]*domain.Entry, error)
	GroupTombstones(ctx context.Context, userID string) ([]*domain.Group, error)
	PurgeEntry(ctx context.Context, userID, id string) error
	PurgeGroup(ctx context.Context, userID, id string) error
}

// TombstoneGC permanently removes soft-deleted entries and groups once
// their deletion timestamp is older than the threshold
type TombstoneGC struct {
	store     TombstoneStore
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewTombstoneGC creates a new tombstone garbage collector
func NewTombstoneGC(
	store TombstoneStore,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *TombstoneGC {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &TombstoneGC{
		store:     store,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *TombstoneGC) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	// Start periodic collection
	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *TombstoneGC) Stop() {
	close(gc.stopCh)
}

// Collect sweeps every known user and purges tombstones older than the
// threshold
func (gc *TombstoneGC) Collect(ctx context.Context) error {
	gc.logger.Info("running tombstone garbage collection")

	now := time.Now()

	users, err := gc.store.Users(ctx)
	if err != nil {
		return err
	}

	entriesPurged := 0
	groupsPurged := 0
	for _, userID := range users {
		e, g := gc.collectUser(ctx, userID, now)
		entriesPurged += e
		groupsPurged += g
	}

	totalPurged := entriesPurged + groupsPurged
	if totalPurged > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("users", len(users)),
			logger.Int("entries_purged", entriesPurged),
			logger.Int("groups_purged", groupsPurged))
	} else {
		gc.logger.Debug("no tombstones to garbage collect")
	}

	return nil
}

func (gc *TombstoneGC) collectUser(ctx context.Context, userID string, now time.Time) (int, int) {
	entriesPurged := 0
	groupsPurged := 0

	entries, err := gc.store.EntryTombstones(ctx, userID)
	if err != nil {
		gc.logger.Warn("failed to list entry tombstones",
			logger.String("user_id", userID),
			logger.Error(err))
	}
	for _, entry := range entries {
		if entry.Deleted == nil || now.Sub(entry.Deleted.At) < gc.threshold {
			continue
		}
		if err := gc.store.PurgeEntry(ctx, userID, entry.ID); err != nil {
			gc.logger.Warn("failed to purge entry tombstone",
				logger.String("user_id", userID),
				logger.String("entry_id", entry.ID),
				logger.Error(err))
			continue
		}
		entriesPurged++
	}

	groups, err := gc.store.GroupTombstones(ctx, userID)
	if err != nil {
		gc.logger.Warn("failed to list group tombstones",
			logger.String("user_id", userID),
			logger.Error(err))
	}
	for _, group := range groups {
		if group.Deleted == nil || now.Sub(group.Deleted.At) < gc.threshold {
			continue
		}
		if err := gc.store.PurgeGroup(ctx, userID, group.ID); err != nil {
			gc.logger.Warn("failed to purge group tombstone",
				logger.String("user_id", userID),
				logger.String("group_id", group.ID),
				logger.Error(err))
			continue
		}
		groupsPurged++
	}

	return entriesPurged, groupsPurged
}
