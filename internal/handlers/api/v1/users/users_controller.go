// ===============================
// FILE: internal/handlers/api/v1/users/users_controller.go
// ===============================

package users

import (
	"context"
	"encoding/json"
	"ecotrack/internal/middleware"
	"ecotrack/internal/models"
	"ecotrack/internal/response"
	"ecotrack/internal/services"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles user profile and admin moderation endpoints
type Controller struct {
	users           services.UserService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the users controller
func NewController(users services.UserService, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		users:           users,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// ===============================
// PROFILE ENDPOINTS
// ===============================

// Profile returns a public profile by username - GET /api/v1/users/{username}
func (c *Controller) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	username := chi.URLParam(r, "username")
	if username == "" {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("username is required", nil))
		return
	}

	profile, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	// Email is only visible to the account owner and admins
	viewer := middleware.GetCurrentUser(r.Context())
	if viewer == nil || (viewer.ID != profile.ID && !viewer.IsAdmin()) {
		profile.Email = ""
	}

	c.responseBuilder.WriteSuccess(w, r, profile)
}

// ===============================
// ADMIN ENDPOINTS
// ===============================

// List returns all accounts - GET /api/v1/admin/users
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := models.PaginationParams{Cursor: q.Get("cursor")}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}

	page, err := c.users.List(ctx, params)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WritePaginated(w, r, page.Data, page.Pagination)
}

// UpdateRole changes an account's role - PUT /api/v1/admin/users/{id}/role
func (c *Controller) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "update_role"))

	admin := middleware.GetCurrentUser(r.Context())
	if admin == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	userID, err := pathID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user id", err))
		return
	}

	var req services.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.AdminID = admin.ID
	req.UserID = userID

	user, err := c.users.UpdateRole(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("User role updated",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Int64("admin_id", admin.ID),
	)

	c.responseBuilder.WriteSuccess(w, r, user)
}

// Activate re-enables an account - POST /api/v1/admin/users/{id}/activate
func (c *Controller) Activate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

// Deactivate disables an account and revokes its sessions - POST /api/v1/admin/users/{id}/deactivate
func (c *Controller) Deactivate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

func (c *Controller) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "set_active"))

	admin := middleware.GetCurrentUser(r.Context())
	if admin == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	userID, err := pathID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid user id", err))
		return
	}

	user, err := c.users.SetActive(ctx, &services.SetActiveRequest{
		AdminID: admin.ID,
		UserID:  userID,
		Active:  active,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("User active flag updated",
		zap.Int64("user_id", user.ID),
		zap.Bool("active", user.IsActive),
		zap.Int64("admin_id", admin.ID),
	)

	c.responseBuilder.WriteSuccess(w, r, user)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
