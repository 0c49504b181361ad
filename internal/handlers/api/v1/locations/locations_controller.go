// ===============================
// FILE: internal/handlers/api/v1/locations/locations_controller.go
// ===============================

package locations

import (
	"context"
	"encoding/json"
	"ecotrack/internal/middleware"
	"ecotrack/internal/response"
	"ecotrack/internal/services"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles community location API endpoints
type Controller struct {
	locations       services.LocationService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the locations controller
func NewController(locations services.LocationService, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		locations:       locations,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Suggest submits a location for review - POST /api/v1/locations
func (c *Controller) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "suggest_location"))

	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	var req services.SuggestLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = user.ID

	location, err := c.locations.Suggest(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Location suggested",
		zap.Int64("location_id", location.ID),
		zap.String("location_type", location.LocationType),
	)

	c.responseBuilder.WriteCreated(w, r, location)
}

// List returns approved locations for the map - GET /api/v1/locations
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	approved, err := c.locations.ListApproved(ctx, r.URL.Query().Get("type"))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, approved)
}

// Get returns one location - GET /api/v1/locations/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	id, err := pathID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid location id", err))
		return
	}

	location, err := c.locations.GetByID(ctx, id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, location)
}

// Pending lists suggestions awaiting review - GET /api/v1/admin/locations/pending
func (c *Controller) Pending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	pending, err := c.locations.ListPending(ctx)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, pending)
}

// Approve publishes a suggested location - POST /api/v1/admin/locations/{id}/approve
func (c *Controller) Approve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "approve_location"))

	admin := middleware.GetCurrentUser(r.Context())
	if admin == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	id, err := pathID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid location id", err))
		return
	}

	location, err := c.locations.Approve(ctx, admin.ID, id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Location approved",
		zap.Int64("location_id", location.ID),
		zap.Int64("admin_id", admin.ID),
	)

	c.responseBuilder.WriteSuccess(w, r, location)
}

// Delete removes a location - DELETE /api/v1/admin/locations/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	admin := middleware.GetCurrentUser(r.Context())
	if admin == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	id, err := pathID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid location id", err))
		return
	}

	if err := c.locations.Delete(ctx, admin.ID, id); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteNoContent(w, r)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
