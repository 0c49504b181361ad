// file: internal/services/leaderboard_service.go
package services

import (
	"context"
	"ecotrack/internal/cache"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	leaderboardCachePrefix = "leaderboard:"
	leaderboardCacheTTL    = 60 * time.Second
	defaultLeaderboardSize = 20
)

// leaderboardService implements LeaderboardService
type leaderboardService struct {
	repos    *repositories.Collection
	cache    cache.Cache
	logger   *zap.Logger
	validate *validator.Validate
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(repos *repositories.Collection, cache cache.Cache, logger *zap.Logger) LeaderboardService {
	return &leaderboardService{
		repos:    repos,
		cache:    cache,
		logger:   logger,
		validate: newValidator(),
	}
}

// Top returns the ranked standings for a period and category. Results are
// cached briefly; the cache is dropped whenever scoring changes.
func (s *leaderboardService) Top(ctx context.Context, req *LeaderboardRequest) (*LeaderboardResponse, error) {
	period, category, limit, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%stop:%s:%s:%d", leaderboardCachePrefix, period, category, limit)
	var cached LeaderboardResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	entries, err := s.fetch(ctx, period, category, limit)
	if err != nil {
		s.logger.Error("Failed to build leaderboard",
			zap.Error(err),
			zap.String("period", period),
			zap.String("category", category),
		)
		return nil, NewInternalError("failed to build leaderboard")
	}

	resp := &LeaderboardResponse{
		Period:      period,
		Category:    category,
		Entries:     entries,
		GeneratedAt: time.Now(),
	}
	if err := s.cache.Set(ctx, key, resp, leaderboardCacheTTL); err != nil {
		s.logger.Debug("Failed to cache leaderboard", zap.Error(err))
	}
	return resp, nil
}

// Standing returns one user's rank for a period and category. Users with no
// qualifying actions in the window have no standing.
func (s *leaderboardService) Standing(ctx context.Context, userID int64, req *LeaderboardRequest) (*models.LeaderboardEntry, error) {
	period, category, _, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	var entry *models.LeaderboardEntry
	if period == models.PeriodAll && category == models.CategoryOverall {
		entry, err = s.repos.User.Standing(ctx, userID)
	} else {
		since := periodStart(period)
		entry, err = s.repos.Action.Standing(ctx, userID, since, categoryFilter(category))
	}
	if err != nil {
		s.logger.Error("Failed to get standing", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to get standing")
	}
	if entry == nil {
		return nil, NewNotFoundError("no standing for this user in the selected window")
	}
	return entry, nil
}

// Invalidate drops every cached leaderboard
func (s *leaderboardService) Invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, leaderboardCachePrefix+"*"); err != nil {
		s.logger.Debug("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}

func (s *leaderboardService) normalize(req *LeaderboardRequest) (period, category string, limit int, err error) {
	if req == nil {
		req = &LeaderboardRequest{}
	}
	if err := s.validate.Struct(req); err != nil {
		return "", "", 0, NewRequestValidationError("invalid leaderboard request", err)
	}

	period = req.Period
	if period == "" {
		period = models.PeriodAll
	}
	category = req.Category
	if category == "" {
		category = models.CategoryOverall
	}
	limit = req.Limit
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	return period, category, limit, nil
}

// fetch picks the cheapest source: the denormalized lifetime totals for the
// all-time overall board, the action aggregate otherwise.
func (s *leaderboardService) fetch(ctx context.Context, period, category string, limit int) ([]models.LeaderboardEntry, error) {
	if period == models.PeriodAll && category == models.CategoryOverall {
		return s.repos.User.Leaderboard(ctx, limit)
	}
	return s.repos.Action.Leaderboard(ctx, periodStart(period), categoryFilter(category), limit)
}

// periodStart maps a period to its window start; nil means all time
func periodStart(period string) *time.Time {
	now := time.Now()
	var since time.Time
	switch period {
	case models.PeriodWeek:
		since = now.AddDate(0, 0, -7)
	case models.PeriodMonth:
		since = now.AddDate(0, -1, 0)
	case models.PeriodYear:
		since = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &since
}

func categoryFilter(category string) string {
	if category == models.CategoryOverall {
		return ""
	}
	return category
}
