package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

const insuranceStatsKey = "trailer-admin:insurance:stats"

// StatsCache memoizes the insurance dashboard aggregate in Redis. With a nil client every
// call is a miss and writes are dropped.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsCache constructs the cache.
func NewStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached stats. Redis errors are logged and reported as a miss.
func (c *StatsCache) Get(ctx context.Context) (domain.InsuranceStats, bool) {
	var stats domain.InsuranceStats
	if c == nil || c.client == nil {
		return stats, false
	}
	raw, err := c.client.Get(ctx, insuranceStatsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("read insurance stats cache", zap.Error(err))
		}
		return stats, false
	}
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.logger.Warn("decode insurance stats cache", zap.Error(err))
		return stats, false
	}
	return stats, true
}

// Set stores stats for the configured TTL.
func (c *StatsCache) Set(ctx context.Context, stats domain.InsuranceStats) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, insuranceStatsKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("write insurance stats cache", zap.Error(err))
	}
}

// Invalidate drops the cached stats after a policy write.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, insuranceStatsKey).Err(); err != nil {
		c.logger.Warn("invalidate insurance stats cache", zap.Error(err))
	}
}
