// Package cache provides the Redis-backed week view cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/weekplan/internal/planning/application/queries"
)

// DefaultTTL bounds staleness for reads that bypass invalidation, for
// example a calendar import that changes the merged view.
const DefaultTTL = 5 * time.Minute

// WeekCache caches rendered week views in Redis. It satisfies both the
// query-side cache and the command-side invalidator.
type WeekCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWeekCache creates a WeekCache. A zero ttl falls back to DefaultTTL.
func NewWeekCache(client *redis.Client, ttl time.Duration) *WeekCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &WeekCache{client: client, ttl: ttl}
}

// GetWeek returns the cached view, or nil on a miss.
func (c *WeekCache) GetWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*queries.WeekView, error) {
	data, err := c.client.Get(ctx, c.key(userID, weekStart)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read week view cache: %w", err)
	}

	var view queries.WeekView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to decode cached week view: %w", err)
	}
	return &view, nil
}

// SetWeek stores the view with the configured TTL.
func (c *WeekCache) SetWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time, view *queries.WeekView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode week view: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID, weekStart), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write week view cache: %w", err)
	}
	return nil
}

// InvalidateWeek drops the cached view after a replan.
func (c *WeekCache) InvalidateWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) error {
	if err := c.client.Del(ctx, c.key(userID, weekStart)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate week view cache: %w", err)
	}
	return nil
}

func (c *WeekCache) key(userID uuid.UUID, weekStart time.Time) string {
	return fmt.Sprintf("weekplan:view:%s:%s", userID, weekStart.Format("2006-01-02"))
}
