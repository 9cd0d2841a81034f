package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

func TestStatsCacheWithoutClientIsNoop(t *testing.T) {
	c := NewStatsCache(nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, domain.InsuranceStats{TotalPolicies: 3})
	_, ok := c.Get(ctx)
	assert.False(t, ok)
	c.Invalidate(ctx)

	var nilCache *StatsCache
	_, ok = nilCache.Get(ctx)
	assert.False(t, ok)
}
