// ===============================
// FILE: internal/handlers/api/v1/leaderboard/leaderboard_controller.go
// ===============================

package leaderboard

import (
	"context"
	"ecotrack/internal/middleware"
	"ecotrack/internal/response"
	"ecotrack/internal/services"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Controller handles leaderboard API endpoints
type Controller struct {
	leaderboard     services.LeaderboardService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewController creates the leaderboard controller
func NewController(leaderboard services.LeaderboardService, logger *zap.Logger, responseBuilder *response.Builder) *Controller {
	return &Controller{
		leaderboard:     leaderboard,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Top returns the ranked leaderboard - GET /api/v1/leaderboard
func (c *Controller) Top(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	board, err := c.leaderboard.Top(ctx, queryRequest(r))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, board)
}

// Standing returns the caller's own rank - GET /api/v1/leaderboard/me
func (c *Controller) Standing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	entry, err := c.leaderboard.Standing(ctx, user.ID, queryRequest(r))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, entry)
}

// queryRequest reads the ranking window and category from the query string
func queryRequest(r *http.Request) *services.LeaderboardRequest {
	q := r.URL.Query()
	req := &services.LeaderboardRequest{
		Period:   q.Get("period"),
		Category: q.Get("category"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		req.Limit = limit
	}
	return req
}
