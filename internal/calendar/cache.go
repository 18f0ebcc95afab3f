package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agendly/agendly-platform/pkg/logging"
)

// GridCache keeps rendered basic-level day grids in redis, one hash per
// org+date with a field per professional. Mutations invalidate whole days,
// which keeps the write path ignorant of professional fan-out. A nil cache
// is a no-op.
type GridCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewGridCache constructs a redis-backed grid cache.
func NewGridCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *GridCache {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &GridCache{client: client, ttl: ttl, logger: logger}
}

func dayKey(orgID, date string) string {
	return fmt.Sprintf("agendly:calendar:%s:%s", orgID, date)
}

// Get returns a cached grid, or ok=false on miss or any redis failure.
func (c *GridCache) Get(ctx context.Context, orgID string, professionalID int64, date string) (*DayGrid, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.client.HGet(ctx, dayKey(orgID, date), strconv.FormatInt(professionalID, 10)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("calendar cache read failed", "error", err, "org_id", orgID, "date", date)
		}
		return nil, false
	}

	var grid DayGrid
	if err := json.Unmarshal([]byte(payload), &grid); err != nil {
		c.logger.Warn("calendar cache entry corrupt", "error", err, "org_id", orgID, "date", date)
		return nil, false
	}
	return &grid, true
}

// Put stores a grid. Failures are logged and swallowed; the cache is an
// optimization, not a source of truth.
func (c *GridCache) Put(ctx context.Context, grid *DayGrid) {
	if c == nil || grid == nil {
		return
	}

	payload, err := json.Marshal(grid)
	if err != nil {
		c.logger.Warn("calendar cache encode failed", "error", err)
		return
	}

	key := dayKey(grid.OrgID, grid.Date)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.FormatInt(grid.ProfessionalID, 10), payload)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("calendar cache write failed", "error", err, "org_id", grid.OrgID, "date", grid.Date)
	}
}

// InvalidateDay drops every professional's cached grid for the org+date.
// Satisfies the booking path's cache invalidator.
func (c *GridCache) InvalidateDay(ctx context.Context, orgID, date string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, dayKey(orgID, date)).Err(); err != nil {
		return fmt.Errorf("calendar: cache invalidation failed: %w", err)
	}
	return nil
}
