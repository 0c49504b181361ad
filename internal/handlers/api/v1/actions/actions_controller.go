// ===============================
// FILE: internal/handlers/api/v1/actions/actions_controller.go
// ===============================

package actions

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

// maxPhotoUploadBytes caps the multipart form we are willing to parse
const maxPhotoUploadBytes = 10 << 20

// Controller handles eco action API endpoints
type Controller struct {
	actions         services.ActionService
	files           services.FileService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the actions controller. files may be nil when photo
// storage is not configured.
func NewController(actions services.ActionService, files services.FileService, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		actions:         actions,
		files:           files,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// ===============================
// SUBMISSION ENDPOINTS
// ===============================

// Submit logs a new eco action - POST /api/v1/actions
func (c *Controller) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "submit_action"))

	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	var req services.SubmitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = user.ID

	action, err := c.actions.Submit(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Action submitted",
		zap.Int64("action_id", action.ID),
		zap.String("action_type", action.ActionType),
		zap.String("status", action.Status),
	)

	c.responseBuilder.WriteCreated(w, r, action)
}

// UploadPhoto stores an action photo - POST /api/v1/actions/photo
func (c *Controller) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "upload_photo"))

	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}
	if c.files == nil {
		c.responseBuilder.WriteError(w, r, services.NewServiceUnavailableError("photo storage is not configured"))
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid multipart form", err))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("photo file is required", err))
		return
	}
	defer file.Close()

	uploaded, err := c.files.UploadImage(ctx, &services.FileUploadRequest{
		UserID:      user.ID,
		File:        file,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Folder:      "actions",
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Photo uploaded",
		zap.Int64("user_id", user.ID),
		zap.String("public_id", uploaded.PublicID),
	)

	c.responseBuilder.WriteCreated(w, r, uploaded)
}

// ===============================
// READ ENDPOINTS
// ===============================

// Get returns one action - GET /api/v1/actions/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	id, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid action id", err))
		return
	}

	action, err := c.actions.GetByID(ctx, id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, action)
}

// Feed lists approved actions - GET /api/v1/actions
func (c *Controller) Feed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	req := listRequest(r)
	page, err := c.actions.ListApproved(ctx, req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WritePaginated(w, r, page.Data, page.Pagination)
}

// Mine lists the caller's own actions in any status - GET /api/v1/actions/mine
func (c *Controller) Mine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	req := listRequest(r)
	req.UserID = &user.ID

	page, err := c.actions.ListByUser(ctx, req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WritePaginated(w, r, page.Data, page.Pagination)
}

// Pending lists actions awaiting review - GET /api/v1/admin/actions/pending
func (c *Controller) Pending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	page, err := c.actions.ListPending(ctx, listRequest(r))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WritePaginated(w, r, page.Data, page.Pagination)
}

// ===============================
// MODERATION ENDPOINTS
// ===============================

// Review resolves a pending action - POST /api/v1/admin/actions/{id}/review
func (c *Controller) Review(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "review_action"))

	reviewer := middleware.GetCurrentUser(r.Context())
	if reviewer == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid action id", err))
		return
	}

	var req services.ReviewActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.ActionID = id
	req.ReviewerID = reviewer.ID

	action, err := c.actions.Review(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Action reviewed",
		zap.Int64("action_id", action.ID),
		zap.String("status", action.Status),
		zap.Int64("reviewer_id", reviewer.ID),
	)

	c.responseBuilder.WriteSuccess(w, r, action)
}

// Delete removes an action - DELETE /api/v1/actions/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "delete_action"))

	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid action id", err))
		return
	}

	if err := c.actions.Delete(ctx, user.ID, user.Role, id); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Action deleted", zap.Int64("action_id", id), zap.Int64("actor_id", user.ID))

	c.responseBuilder.WriteNoContent(w, r)
}

// ===============================
// HELPER METHODS
// ===============================

// listRequest reads cursor pagination and filters from the query string
func listRequest(r *http.Request) *services.ListActionsRequest {
	q := r.URL.Query()
	req := &services.ListActionsRequest{
		ActionType: q.Get("type"),
		Cursor:     q.Get("cursor"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		req.Limit = limit
	}
	return req
}

func pathID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}
