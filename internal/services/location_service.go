// file: internal/services/location_service.go
package services

import (
	"context"
	"database/sql"
	"ecotrack/internal/events"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// locationService implements LocationService
type locationService struct {
	repos    *repositories.Collection
	events   events.EventBus
	logger   *zap.Logger
	validate *validator.Validate
}

// NewLocationService creates a new location service
func NewLocationService(repos *repositories.Collection, events events.EventBus, logger *zap.Logger) LocationService {
	return &locationService{
		repos:    repos,
		events:   events,
		logger:   logger,
		validate: newValidator(),
	}
}

// Suggest submits a location for moderation. Suggestions are never published
// directly, even when made by an admin.
func (s *locationService) Suggest(ctx context.Context, req *SuggestLocationRequest) (*models.Location, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid location suggestion", err)
	}

	location := &models.Location{
		Name:         req.Name,
		Description:  req.Description,
		LocationType: req.LocationType,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Approved:     false,
		SuggestedBy:  &req.UserID,
	}
	if err := s.repos.Location.Create(ctx, location); err != nil {
		s.logger.Error("Failed to create location", zap.Error(err), zap.Int64("user_id", req.UserID))
		return nil, NewInternalError("failed to suggest location")
	}

	if err := s.events.Publish(ctx, events.NewLocationSuggestedEvent(
		req.UserID, location.ID, location.LocationType)); err != nil {
		s.logger.Warn("Failed to publish location suggested event", zap.Error(err))
	}

	s.logger.Info("Location suggested",
		zap.Int64("location_id", location.ID),
		zap.Int64("user_id", req.UserID),
		zap.String("location_type", location.LocationType),
	)
	return location, nil
}

// GetByID retrieves a location
func (s *locationService) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	location, err := s.repos.Location.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get location", zap.Error(err), zap.Int64("location_id", id))
		return nil, NewInternalError("failed to get location")
	}
	if location == nil {
		return nil, NewNotFoundError("location not found")
	}
	return location, nil
}

// ListApproved returns the public map pins
func (s *locationService) ListApproved(ctx context.Context, locationType string) ([]*models.Location, error) {
	if locationType != "" && !models.ValidateLocationType(locationType) {
		return nil, NewValidationError("unknown location type", nil)
	}
	locations, err := s.repos.Location.ListApproved(ctx, locationType)
	if err != nil {
		s.logger.Error("Failed to list locations", zap.Error(err))
		return nil, NewInternalError("failed to list locations")
	}
	return locations, nil
}

// ListPending returns the moderation queue
func (s *locationService) ListPending(ctx context.Context) ([]*models.Location, error) {
	locations, err := s.repos.Location.ListPending(ctx)
	if err != nil {
		s.logger.Error("Failed to list pending locations", zap.Error(err))
		return nil, NewInternalError("failed to list locations")
	}
	return locations, nil
}

// Approve publishes a pending location. Approving an already published
// location is a no-op.
func (s *locationService) Approve(ctx context.Context, adminID, locationID int64) (*models.Location, error) {
	location, err := s.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location.Approved {
		return location, nil
	}

	if err := s.repos.Location.Approve(ctx, locationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("location not found")
		}
		s.logger.Error("Failed to approve location", zap.Error(err), zap.Int64("location_id", locationID))
		return nil, NewInternalError("failed to approve location")
	}
	location.Approved = true

	if err := s.events.Publish(ctx, events.NewLocationApprovedEvent(adminID, locationID)); err != nil {
		s.logger.Warn("Failed to publish location approved event", zap.Error(err))
	}

	s.logger.Info("Location approved",
		zap.Int64("location_id", locationID),
		zap.Int64("admin_id", adminID),
	)
	return location, nil
}

// Delete removes a location
func (s *locationService) Delete(ctx context.Context, adminID, locationID int64) error {
	if err := s.repos.Location.Delete(ctx, locationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("location not found")
		}
		s.logger.Error("Failed to delete location", zap.Error(err), zap.Int64("location_id", locationID))
		return NewInternalError("failed to delete location")
	}

	s.logger.Info("Location deleted",
		zap.Int64("location_id", locationID),
		zap.Int64("admin_id", adminID),
	)
	return nil
}
