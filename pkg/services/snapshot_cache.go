package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/praxisflow/hr-engine/pkg/models"
)

// SnapshotCache keeps recently assembled overview payloads in Redis.
// Snapshots are computed views, never authoritative state, so the cache is
// strictly best-effort: any Redis failure degrades to a fresh computation.
// A nil Redis client disables caching entirely.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotCache creates a cache. client may be nil.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("snapshot-cache"),
	}
}

// Enabled reports whether a Redis backend is configured.
func (c *SnapshotCache) Enabled() bool {
	return c != nil && c.client != nil
}

// key builds the cache key. Every request dimension that changes the
// payload must appear here; in particular kMin, since a stricter k changes
// which cohorts are released.
func (c *SnapshotCache) key(practiceID uuid.UUID, req models.OverviewRequest) string {
	return fmt.Sprintf("hr:overview:%s:%s:%d:%s:%s",
		practiceID, req.Level, req.KMin, req.Period.StartString(), req.Period.EndString())
}

// Get returns the cached payload for the request, or nil on miss.
func (c *SnapshotCache) Get(ctx context.Context, practiceID uuid.UUID, req models.OverviewRequest) *models.HROverviewResponse {
	if !c.Enabled() {
		return nil
	}

	data, err := c.client.Get(ctx, c.key(practiceID, req)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache read failed", zap.Error(err))
		}
		return nil
	}

	var response models.HROverviewResponse
	if err := json.Unmarshal(data, &response); err != nil {
		c.logger.Warn("Cache entry corrupt, ignoring", zap.Error(err))
		return nil
	}
	return &response
}

// Set stores the payload for the request. Failures are logged, not
// surfaced.
func (c *SnapshotCache) Set(ctx context.Context, practiceID uuid.UUID, req models.OverviewRequest, response *models.HROverviewResponse) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(response)
	if err != nil {
		c.logger.Warn("Cache write failed to marshal", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(practiceID, req), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", zap.Error(err))
	}
}
