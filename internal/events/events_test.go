// file: internal/events/events_test.go
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()
	bus := NewEventBus(DefaultEventBusConfig(), zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return bus
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	bus := newTestBus(t)

	var handled int64
	handler := NewEventHandlerFunc("test-handler", func(ctx context.Context, event Event) error {
		atomic.AddInt64(&handled, 1)
		assert.Equal(t, "user.registered", event.GetEventType())
		return nil
	})
	require.NoError(t, bus.Subscribe("user.registered", handler))

	event := NewUserRegisteredEvent(7, "leaf@example.com", "leaf")
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Equal(t, int64(1), atomic.LoadInt64(&handled))
}

func TestPublishSkipsOtherEventTypes(t *testing.T) {
	bus := newTestBus(t)

	var handled int64
	handler := NewEventHandlerFunc("badge-handler", func(ctx context.Context, event Event) error {
		atomic.AddInt64(&handled, 1)
		return nil
	})
	require.NoError(t, bus.Subscribe("badge.awarded", handler))

	require.NoError(t, bus.Publish(context.Background(), NewUserRegisteredEvent(7, "a@b.c", "a")))
	assert.Zero(t, atomic.LoadInt64(&handled))
}

func TestPublishAsync(t *testing.T) {
	bus := newTestBus(t)

	done := make(chan struct{})
	handler := NewEventHandlerFunc("async-handler", func(ctx context.Context, event Event) error {
		close(done)
		return nil
	})
	require.NoError(t, bus.Subscribe("badge.awarded", handler))

	require.NoError(t, bus.PublishAsync(context.Background(), NewBadgeAwardedEvent(7, 1, "First Sprout")))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async event never reached the handler")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := newTestBus(t)

	var handled int64
	handler := NewEventHandlerFunc("gone-handler", func(ctx context.Context, event Event) error {
		atomic.AddInt64(&handled, 1)
		return nil
	})
	require.NoError(t, bus.Subscribe("user.registered", handler))
	require.NoError(t, bus.Unsubscribe("user.registered", handler))

	require.NoError(t, bus.Publish(context.Background(), NewUserRegisteredEvent(1, "x@y.z", "x")))
	assert.Zero(t, atomic.LoadInt64(&handled))
}

func TestModeratedEventType(t *testing.T) {
	approved := NewActionModeratedEvent(1, 2, 3, "approved", 15)
	assert.Equal(t, "action.approved", approved.GetEventType())

	rejected := NewActionModeratedEvent(1, 2, 3, "rejected", 0)
	assert.Equal(t, "action.rejected", rejected.GetEventType())
}

func TestBusStatsAndHealth(t *testing.T) {
	bus := newTestBus(t)
	require.NoError(t, bus.Health())

	require.NoError(t, bus.Subscribe("user.registered", NewEventHandlerFunc("h", func(ctx context.Context, event Event) error {
		return nil
	})))
	require.NoError(t, bus.Publish(context.Background(), NewUserRegisteredEvent(1, "x@y.z", "x")))

	stats := bus.Stats()
	assert.GreaterOrEqual(t, stats.EventsPublished, int64(1))
	assert.Equal(t, 1, stats.HandlersCount)
}

func TestStatsUnderConcurrentPublish(t *testing.T) {
	bus := newTestBus(t)

	require.NoError(t, bus.Subscribe("user.registered", NewEventHandlerFunc("noop", func(ctx context.Context, event Event) error {
		return nil
	})))

	const publishers = 8
	const perPublisher = 25

	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPublisher; j++ {
				_ = bus.Publish(context.Background(), NewUserRegisteredEvent(1, "x@y.z", "x"))
				bus.Stats()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(publishers*perPublisher), bus.Stats().EventsPublished)
}

func TestGenerateEventIDUnique(t *testing.T) {
	assert.NotEqual(t, GenerateEventID(), GenerateEventID())
}
