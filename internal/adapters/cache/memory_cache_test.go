package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T, ttl time.Duration) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), ttl, time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t, time.Hour)
	ctx := context.Background()

	record := &core.EmailRecord{ID: "m1", Subject: "hello"}
	require.NoError(t, c.Set(ctx, record))

	got, ok := c.Get(ctx, "m1")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Subject)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache(t, time.Hour)

	_, ok := c.Get(context.Background(), "absent")
	assert.False(t, ok)
}

func TestMemoryCacheRejectsEmptyID(t *testing.T) {
	c := newTestCache(t, time.Hour)

	assert.Error(t, c.Set(context.Background(), &core.EmailRecord{}))
	assert.Error(t, c.Set(context.Background(), nil))
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &core.EmailRecord{ID: "m1"}))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "m1")
	assert.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &core.EmailRecord{ID: "m1"}))
	require.NoError(t, c.Delete(ctx, "m1"))

	_, ok := c.Get(ctx, "m1")
	assert.False(t, ok)
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := newTestCache(t, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &core.EmailRecord{ID: "m1"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, c.Cleanup(ctx))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Empty(t, c.entries)
}
