// file: internal/services/stats_service.go
package services

import (
	"context"
	"ecotrack/internal/cache"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"time"

	"go.uber.org/zap"
)

const (
	statsCacheKey = "stats:platform"
	statsCacheTTL = 5 * time.Minute
)

// statsService implements StatsService
type statsService struct {
	repos  *repositories.Collection
	cache  cache.Cache
	logger *zap.Logger
}

// NewStatsService creates a new platform stats service
func NewStatsService(repos *repositories.Collection, cache cache.Cache, logger *zap.Logger) StatsService {
	return &statsService{
		repos:  repos,
		cache:  cache,
		logger: logger,
	}
}

// PlatformStats returns the public counters, cached for a few minutes
func (s *statsService) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	var cached models.PlatformStats
	if s.cache.Get(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.repos.Stats.PlatformStats(ctx)
	if err != nil {
		s.logger.Error("Failed to compute platform stats", zap.Error(err))
		return nil, NewInternalError("failed to compute stats")
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
		s.logger.Debug("Failed to cache platform stats", zap.Error(err))
	}
	return stats, nil
}
