// file: internal/services/user_service.go
package services

import (
	"context"
	"database/sql"
	"ecotrack/internal/events"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// userService implements UserService
type userService struct {
	repos               *repositories.Collection
	events              events.EventBus
	logger              *zap.Logger
	validate            *validator.Validate
	bootstrapAdminEmail string
}

// NewUserService creates a new user service
func NewUserService(repos *repositories.Collection, events events.EventBus, logger *zap.Logger, bootstrapAdminEmail string) UserService {
	return &userService{
		repos:               repos,
		events:              events,
		logger:              logger,
		validate:            newValidator(),
		bootstrapAdminEmail: strings.ToLower(bootstrapAdminEmail),
	}
}

// GetProfile returns a user with badge and action counts
func (s *userService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repos.User.GetWithStats(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get profile", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to get profile")
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}
	user.PasswordHash = ""
	return user, nil
}

// GetByUsername resolves a public profile by username
func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repos.User.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, NewInternalError("failed to get user")
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}
	return s.GetProfile(ctx, user.ID)
}

// List returns a paginated user roster
func (s *userService) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error) {
	page, err := s.repos.User.List(ctx, params)
	if err != nil {
		if errors.Is(err, repositories.ErrBadCursor) {
			return nil, NewValidationError(err.Error(), nil)
		}
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, NewInternalError("failed to list users")
	}
	return page, nil
}

// UpdateRole promotes or demotes a user. The bootstrap admin can never be
// demoted, and admins cannot change their own role.
func (s *userService) UpdateRole(ctx context.Context, req *UpdateRoleRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid role change request", err)
	}
	if req.AdminID == req.UserID {
		return nil, NewForbiddenError("you cannot change your own role")
	}

	user, err := s.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if s.isBootstrapAdmin(user) && req.Role != models.RoleAdmin {
		return nil, NewForbiddenError("the bootstrap admin cannot be demoted")
	}
	if user.Role == req.Role {
		return user, nil
	}

	if err := s.repos.User.UpdateRole(ctx, user.ID, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("user not found")
		}
		s.logger.Error("Failed to update role", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewInternalError("failed to update role")
	}
	user.Role = req.Role

	action := "demoted"
	if req.Role == models.RoleAdmin {
		action = "promoted"
	}
	if err := s.events.Publish(ctx, events.NewUserModeratedEvent(req.AdminID, user.ID, action)); err != nil {
		s.logger.Warn("Failed to publish user moderated event", zap.Error(err))
	}

	s.logger.Info("User role changed",
		zap.Int64("user_id", user.ID),
		zap.Int64("admin_id", req.AdminID),
		zap.String("role", req.Role),
	)
	return user, nil
}

// SetActive activates or deactivates an account. Deactivation revokes every
// session immediately. The bootstrap admin can never be deactivated, and
// admins cannot deactivate themselves.
func (s *userService) SetActive(ctx context.Context, req *SetActiveRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid status change request", err)
	}
	if req.AdminID == req.UserID && !req.Active {
		return nil, NewForbiddenError("you cannot deactivate your own account")
	}

	user, err := s.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if s.isBootstrapAdmin(user) && !req.Active {
		return nil, NewForbiddenError("the bootstrap admin cannot be deactivated")
	}
	if user.IsActive == req.Active {
		return user, nil
	}

	if err := s.repos.User.SetActive(ctx, user.ID, req.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("user not found")
		}
		s.logger.Error("Failed to set active flag", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewInternalError("failed to update account status")
	}
	user.IsActive = req.Active

	if !req.Active {
		if _, err := s.repos.Session.DeleteByUserID(ctx, user.ID); err != nil {
			s.logger.Warn("Failed to revoke sessions on deactivation", zap.Error(err), zap.Int64("user_id", user.ID))
		}
	}

	action := "deactivated"
	if req.Active {
		action = "activated"
	}
	if err := s.events.Publish(ctx, events.NewUserModeratedEvent(req.AdminID, user.ID, action)); err != nil {
		s.logger.Warn("Failed to publish user moderated event", zap.Error(err))
	}

	s.logger.Info("User account status changed",
		zap.Int64("user_id", user.ID),
		zap.Int64("admin_id", req.AdminID),
		zap.Bool("active", req.Active),
	)
	return user, nil
}

func (s *userService) target(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to get user")
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}
	return user, nil
}

func (s *userService) isBootstrapAdmin(user *models.User) bool {
	return strings.ToLower(user.Email) == s.bootstrapAdminEmail
}
