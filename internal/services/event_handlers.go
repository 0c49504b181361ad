// file: internal/services/event_handlers.go
package services

import (
	"context"
	"ecotrack/internal/cache"
	"ecotrack/internal/events"

	"go.uber.org/zap"
)

// auditedEventTypes lists the security and moderation events that get an
// audit log entry.
var auditedEventTypes = []string{
	"user.registered",
	"user.moderated",
	"user.password_changed",
	"action.approved",
	"action.rejected",
	"badge.awarded",
	"location.approved",
}

// statsInvalidatingEventTypes lists the events that change a platform
// counter and therefore make the cached stats snapshot stale.
var statsInvalidatingEventTypes = []string{
	"user.registered",
	"action.approved",
	"action.rejected",
	"badge.awarded",
	"location.approved",
}

// registerEventHandlers attaches the built-in subscribers to the bus: the
// audit log and the stats cache invalidator.
func registerEventHandlers(bus events.EventBus, cacheClient cache.Cache, logger *zap.Logger) error {
	audit := newAuditLogHandler(logger)
	for _, eventType := range auditedEventTypes {
		if err := bus.Subscribe(eventType, audit); err != nil {
			return err
		}
	}

	invalidator := newStatsCacheInvalidator(cacheClient, logger)
	for _, eventType := range statsInvalidatingEventTypes {
		if err := bus.Subscribe(eventType, invalidator); err != nil {
			return err
		}
	}

	return nil
}

// newAuditLogHandler writes a structured audit entry for each event it sees
func newAuditLogHandler(logger *zap.Logger) events.EventHandler {
	return events.NewEventHandlerFunc("audit-log", func(ctx context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.GetEventID()),
			zap.String("event_type", event.GetEventType()),
			zap.Time("occurred_at", event.GetTimestamp()),
		}
		if userID := event.GetUserID(); userID != nil {
			fields = append(fields, zap.Int64("user_id", *userID))
		}
		for key, value := range event.GetMetadata() {
			fields = append(fields, zap.Any(key, value))
		}
		logger.Info("Audit event", fields...)
		return nil
	})
}

// newStatsCacheInvalidator drops the cached stats snapshot so the next read
// recomputes it with the updated counters
func newStatsCacheInvalidator(cacheClient cache.Cache, logger *zap.Logger) events.EventHandler {
	return events.NewEventHandlerFunc("stats-cache-invalidator", func(ctx context.Context, event events.Event) error {
		if err := cacheClient.Delete(ctx, statsCacheKey); err != nil {
			logger.Warn("Failed to invalidate stats cache",
				zap.String("event_type", event.GetEventType()),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
}
