package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReportCache stores computed accounting statements per church. Posting or deleting
// a journal entry invalidates every cached statement of the church.
//
// Invalidate advances the church generation. Callers read Generation before
// loading the data a report is built from and hand it to Set, so a report
// computed before an invalidation is never served after it.
type ReportCache interface {
	// Get loads the cached value into dst, reporting whether it was found
	Get(ctx context.Context, churchID uuid.UUID, key string, dst any) (bool, error)
	Generation(ctx context.Context, churchID uuid.UUID) (int64, error)
	// Set stores value under the given generation; a stale generation is never read back
	Set(ctx context.Context, churchID uuid.UUID, generation int64, key string, value any) error
	Invalidate(ctx context.Context, churchID uuid.UUID) error
}

const reportKeyPrefix = "ecclesia:report:"

// RedisReportCache keeps statements in Redis as JSON. Each church has a generation
// counter that is part of every key, so invalidation is a single INCR.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache creates a report cache on an existing client
func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl}
}

func generationKey(churchID uuid.UUID) string {
	return reportKeyPrefix + churchID.String() + ":gen"
}

func reportKey(churchID uuid.UUID, generation int64, key string) string {
	return fmt.Sprintf("%s%s:%d:%s", reportKeyPrefix, churchID, generation, key)
}

func (c *RedisReportCache) Generation(ctx context.Context, churchID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(churchID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to read report generation: %w", err)
	}
	return gen, nil
}

func (c *RedisReportCache) Get(ctx context.Context, churchID uuid.UUID, key string, dst any) (bool, error) {
	gen, err := c.Generation(ctx, churchID)
	if err != nil {
		return false, err
	}
	raw, err := c.client.Get(ctx, reportKey(churchID, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached report: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, churchID uuid.UUID, generation int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(churchID, generation, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Invalidate bumps the church generation; stale keys expire on their own
func (c *RedisReportCache) Invalidate(ctx context.Context, churchID uuid.UUID) error {
	if err := c.client.Incr(ctx, generationKey(churchID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate reports: %w", err)
	}
	return nil
}

var _ ReportCache = (*RedisReportCache)(nil)
