// file: internal/services/service_collection.go
package services

import (
	"context"
	"ecotrack/internal/cache"
	"ecotrack/internal/config"
	"ecotrack/internal/database"
	"ecotrack/internal/events"
	"ecotrack/internal/repositories"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"
)

// ServiceCollection holds every service with its dependencies injected
type ServiceCollection struct {
	Auth        AuthService
	Actions     ActionService
	Badges      BadgeService
	Leaderboard LeaderboardService
	Locations   LocationService
	Users       UserService
	Stats       StatsService
	Files       FileService

	Events events.EventBus

	repos  *repositories.Collection
	cache  cache.Cache
	logger *zap.Logger
}

// NewServiceCollection wires repositories, cache, and the event bus into the
// service layer
func NewServiceCollection(
	db *database.Manager,
	cacheClient cache.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	repos, err := repositories.NewCollection(db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	bus := events.NewEventBus(events.DefaultEventBusConfig(), logger)
	if err := registerEventHandlers(bus, cacheClient, logger); err != nil {
		return nil, fmt.Errorf("failed to register event handlers: %w", err)
	}

	var fileService FileService
	if cfg.Cloudinary.CloudName != "" {
		cld, err := cloudinary.NewFromParams(
			cfg.Cloudinary.CloudName,
			cfg.Cloudinary.APIKey,
			cfg.Cloudinary.APISecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
		}
		fileConfig := DefaultFileConfig()
		if cfg.Cloudinary.MaxFileSize > 0 {
			fileConfig.MaxImageSize = cfg.Cloudinary.MaxFileSize
		}
		fileService = NewFileService(cld, bus, logger, fileConfig)
	}

	badgeService := NewBadgeService(repos, logger)
	leaderboardService := NewLeaderboardService(repos, cacheClient, logger)

	collection := &ServiceCollection{
		Auth: NewAuthService(
			repos.User, repos.Session, cacheClient, bus, logger,
			cfg.Auth, cfg.Features,
		),
		Actions: NewActionService(
			repos, badgeService, leaderboardService, bus, logger,
			cfg.Features.AutoApproveActions,
		),
		Badges:      badgeService,
		Leaderboard: leaderboardService,
		Locations:   NewLocationService(repos, bus, logger),
		Users:       NewUserService(repos, bus, logger, cfg.Features.BootstrapAdminEmail),
		Stats:       NewStatsService(repos, cacheClient, logger),
		Files:       fileService,
		Events:      bus,
		repos:       repos,
		cache:       cacheClient,
		logger:      logger,
	}

	return collection, nil
}

// Repositories exposes the repository collection for wiring that needs
// direct data access, such as the auth middleware
func (c *ServiceCollection) Repositories() *repositories.Collection {
	return c.repos
}

// Start brings up background workers
func (c *ServiceCollection) Start(ctx context.Context) error {
	return c.Events.Start(ctx)
}

// Stop shuts down background workers
func (c *ServiceCollection) Stop(ctx context.Context) error {
	return c.Events.Stop(ctx)
}

// Health reports the health of the service layer's dependencies
func (c *ServiceCollection) Health(ctx context.Context) error {
	if err := c.cache.Health(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Events.Health(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}
