// Package redis implements the remote persistence adapter on Redis:
// one JSON document per entry/group under a per-user key namespace,
// with change streams realized as per-user pub/sub channels.
package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

// Store handles Redis operations for entry and group documents.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

// compile-time check that Store satisfies the adapter contract
var _ remote.Store = (*Store)(nil)

// NewStore creates a new Redis-backed document store.
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}
