// file: internal/cache/cache_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	c := NewMemoryCache(DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "greeting", "hello", time.Minute))

	var value string
	require.True(t, c.Get(ctx, "greeting", &value))
	assert.Equal(t, "hello", value)

	assert.False(t, c.Get(ctx, "missing", &value))
}

func TestMemoryCacheGetDecodesStoredPointer(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type snapshot struct {
		Total int
	}
	require.NoError(t, c.Set(ctx, "snap", &snapshot{Total: 7}, time.Minute))

	var out snapshot
	require.True(t, c.Get(ctx, "snap", &out))
	assert.Equal(t, 7, out.Total)
}

func TestMemoryCacheGetTypeMismatchIsMiss(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "word", "hello", time.Minute))

	var n int64
	assert.False(t, c.Get(ctx, "word", &n))
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "blink", 1, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var n int
	assert.False(t, c.Get(ctx, "blink", &n))
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "gone", "soon", time.Minute))
	require.NoError(t, c.Delete(ctx, "gone"))

	assert.False(t, c.Exists(ctx, "gone"))
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session:a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "session:b", 2, time.Minute))
	require.NoError(t, c.Set(ctx, "leaderboard:top", 3, time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "session:*"))

	assert.False(t, c.Exists(ctx, "session:a"))
	assert.False(t, c.Exists(ctx, "session:b"))
	assert.True(t, c.Exists(ctx, "leaderboard:top"))
}

func TestMemoryCacheIncrement(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "counter", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "counter", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Incremented counters read back as int64
	var stored int64
	require.True(t, c.Get(ctx, "counter", &stored))
	assert.Equal(t, int64(3), stored)

	// Incrementing a non-numeric value fails rather than clobbering it
	require.NoError(t, c.Set(ctx, "word", "hello", time.Minute))
	_, err = c.Increment(ctx, "word", 1)
	assert.Error(t, err)
}

func TestMemoryCacheTTL(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ttl", 1, time.Hour))
	require.NoError(t, c.SetTTL(ctx, "ttl", time.Minute))

	remaining, err := c.GetTTL(ctx, "ttl")
	require.NoError(t, err)
	assert.LessOrEqual(t, remaining, time.Minute)
	assert.Greater(t, remaining, 50*time.Second)

	assert.Error(t, c.SetTTL(ctx, "missing", time.Minute))
}

func TestMemoryCacheStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "hit", 1, time.Minute))

	var n int
	c.Get(ctx, "hit", &n)
	c.Get(ctx, "miss", &n)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Keys)
}

func TestNewCacheUnknownProvider(t *testing.T) {
	_, err := NewCache(&Config{Provider: "memcached"}, zap.NewNop())
	assert.Error(t, err)
}
