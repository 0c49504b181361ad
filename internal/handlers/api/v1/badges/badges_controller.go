// ===============================
// FILE: internal/handlers/api/v1/badges/badges_controller.go
// ===============================

package badges

import (
	"context"
	"ecotrack/internal/middleware"
	"ecotrack/internal/response"
	"ecotrack/internal/services"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles badge API endpoints
type Controller struct {
	badges          services.BadgeService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the badges controller
func NewController(badges services.BadgeService, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		badges:          badges,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// List returns the badge catalog - GET /api/v1/badges
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	catalog, err := c.badges.ListActive(ctx)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, catalog)
}

// Mine returns the caller's earned badges - GET /api/v1/badges/mine
func (c *Controller) Mine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	earned, err := c.badges.ListForUser(ctx, user.ID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, earned)
}

// ForUser returns badges earned by any user - GET /api/v1/users/{id}/badges
func (c *Controller) ForUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user id", err))
		return
	}

	earned, err := c.badges.ListForUser(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, earned)
}

// Reconcile re-evaluates badge awards for every active user - POST /api/v1/admin/badges/reconcile
func (c *Controller) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "reconcile_badges"))

	awarded, err := c.badges.ReconcileAll(ctx)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Badge reconciliation complete", zap.Int("awarded", awarded))

	c.responseBuilder.WriteSuccess(w, r, map[string]int{"awarded": awarded})
}
