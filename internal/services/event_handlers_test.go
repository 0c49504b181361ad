// file: internal/services/event_handlers_test.go
package services

import (
	"context"
	"testing"
	"time"

	"ecotrack/internal/cache"
	"ecotrack/internal/events"
	"ecotrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterEventHandlersSubscribes(t *testing.T) {
	bus := events.NewEventBus(nil, zap.NewNop())
	cacheClient := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	defer cacheClient.Close()

	require.NoError(t, registerEventHandlers(bus, cacheClient, zap.NewNop()))

	expected := len(auditedEventTypes) + len(statsInvalidatingEventTypes)
	assert.Equal(t, expected, bus.Stats().HandlersCount)
}

func TestStatsCacheInvalidatedOnModeration(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus(nil, zap.NewNop())
	cacheClient := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	defer cacheClient.Close()

	require.NoError(t, registerEventHandlers(bus, cacheClient, zap.NewNop()))

	stats := &models.PlatformStats{TotalUsers: 3}
	require.NoError(t, cacheClient.Set(ctx, statsCacheKey, stats, time.Minute))

	var cached models.PlatformStats
	require.True(t, cacheClient.Get(ctx, statsCacheKey, &cached), "snapshot should be cached before the event")

	err := bus.Publish(ctx, events.NewActionModeratedEvent(1, 2, 3, "approved", 10))
	require.NoError(t, err)

	assert.False(t, cacheClient.Get(ctx, statsCacheKey, &cached), "approval should drop the cached snapshot")
}

func TestStatsCacheKeptOnUnrelatedEvent(t *testing.T) {
	ctx := context.Background()
	bus := events.NewEventBus(nil, zap.NewNop())
	cacheClient := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	defer cacheClient.Close()

	require.NoError(t, registerEventHandlers(bus, cacheClient, zap.NewNop()))

	stats := &models.PlatformStats{TotalUsers: 3}
	require.NoError(t, cacheClient.Set(ctx, statsCacheKey, stats, time.Minute))

	err := bus.Publish(ctx, events.NewUserLoggedInEvent(7, "203.0.113.9", "test-agent"))
	require.NoError(t, err)

	var cached models.PlatformStats
	assert.True(t, cacheClient.Get(ctx, statsCacheKey, &cached), "a login should not touch the stats cache")
}
