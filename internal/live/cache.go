// Package live carries the real-time edges of the service: the Redis-backed
// snapshot cache and the websocket hub. Both are best-effort read paths; the
// database stays the source of truth.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vportnov/handball-stats-service/internal/model"
)

const snapshotKeyPrefix = "match:snapshot:%d"

// SnapshotCache stores match snapshots in Redis under a TTL, so a stalled
// match stops serving a frozen scoreboard once the key expires.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSnapshotCache wraps a connected Redis client.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *SnapshotCache {
	l := logger.With().Str("module", "live").Str("component", "snapshot_cache").Logger()
	return &SnapshotCache{client: client, ttl: ttl, log: l}
}

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func snapshotKey(matchID int64) string { return fmt.Sprintf(snapshotKeyPrefix, matchID) }

// Get returns the cached snapshot and whether it was present.
func (c *SnapshotCache) Get(ctx context.Context, matchID int64) (model.MatchSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, snapshotKey(matchID)).Result()
	if errors.Is(err, redis.Nil) {
		return model.MatchSnapshot{}, false, nil
	}
	if err != nil {
		return model.MatchSnapshot{}, false, err
	}
	var snap model.MatchSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		c.log.Warn().Err(err).Int64("match_id", matchID).Msg("dropping unreadable snapshot entry")
		return model.MatchSnapshot{}, false, nil
	}
	return snap, true, nil
}

// Set writes the snapshot under the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, snap model.MatchSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(snap.MatchID), raw, c.ttl).Err()
}
