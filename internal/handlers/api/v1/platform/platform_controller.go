// ===============================
// FILE: internal/handlers/api/v1/platform/platform_controller.go
// ===============================

package platform

import (
	"context"
	"ecotrack/internal/database"
	"ecotrack/internal/response"
	"ecotrack/internal/services"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Controller serves health and public platform statistics
type Controller struct {
	stats           services.StatsService
	collection      *services.ServiceCollection
	db              *database.Manager
	logger          *zap.Logger
	responseBuilder *response.Builder
	startedAt       time.Time
}

// NewController creates the platform controller
func NewController(stats services.StatsService, collection *services.ServiceCollection, db *database.Manager, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		stats:           stats,
		collection:      collection,
		db:              db,
		logger:          logger,
		responseBuilder: responseBuilder,
		startedAt:       time.Now(),
	}
}

// Health reports liveness of the core dependencies - GET /api/v1/health
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	checks := map[string]interface{}{
		"services": "ok",
	}

	dbHealth := c.db.Health(ctx)
	checks["database"] = dbHealth
	if dbHealth.Status != database.StatusHealthy {
		status = "degraded"
	}
	if err := c.collection.Health(ctx); err != nil {
		status = "degraded"
		checks["services"] = err.Error()
	}

	body := map[string]interface{}{
		"status":         status,
		"checks":         checks,
		"uptime_seconds": int64(time.Since(c.startedAt).Seconds()),
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.responseBuilder.WriteJSON(w, r, c.responseBuilder.Success(r.Context(), body), code)
}

// Stats returns public platform counters - GET /api/v1/stats
func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	stats, err := c.stats.PlatformStats(ctx)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, stats)
}
