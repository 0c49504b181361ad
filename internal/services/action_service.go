// file: internal/services/action_service.go
package services

import (
	"context"
	"database/sql"
	"ecotrack/internal/events"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// actionService implements ActionService
type actionService struct {
	repos       *repositories.Collection
	badges      BadgeService
	leaderboard LeaderboardService
	events      events.EventBus
	logger      *zap.Logger
	validate    *validator.Validate
	autoApprove bool
}

// NewActionService creates a new eco action service
func NewActionService(
	repos *repositories.Collection,
	badges BadgeService,
	leaderboard LeaderboardService,
	events events.EventBus,
	logger *zap.Logger,
	autoApprove bool,
) ActionService {
	return &actionService{
		repos:       repos,
		badges:      badges,
		leaderboard: leaderboard,
		events:      events,
		logger:      logger,
		validate:    newValidator(),
		autoApprove: autoApprove,
	}
}

// ===============================
// SUBMISSION
// ===============================

// Submit logs a new eco action. Points always come from the server-side
// scoring table. With auto-approval on, the action is credited immediately;
// otherwise it waits in the moderation queue.
func (s *actionService) Submit(ctx context.Context, req *SubmitActionRequest) (*models.EcoAction, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid action submission", err)
	}

	action := &models.EcoAction{
		UserID:       req.UserID,
		Title:        req.Title,
		Description:  req.Description,
		ActionType:   req.ActionType,
		LocationName: req.LocationName,
		PhotoURL:     req.PhotoURL,
		Points:       models.PointsForAction(req.ActionType),
		Status:       models.ActionStatusPending,
	}

	if !s.autoApprove {
		if err := s.repos.Action.Create(ctx, action); err != nil {
			s.logger.Error("Failed to create eco action", zap.Error(err), zap.Int64("user_id", req.UserID))
			return nil, NewInternalError("failed to submit action")
		}
	} else {
		action.Status = models.ActionStatusApproved
		now := time.Now()
		action.ReviewedAt = &now

		var earned []*models.Badge
		err := s.repos.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := s.repos.Action.CreateTx(ctx, tx, action); err != nil {
				return err
			}
			if err := s.repos.User.AddPointsTx(ctx, tx, req.UserID, action.Points); err != nil {
				return err
			}
			var err error
			earned, err = s.badges.EvaluateTx(ctx, tx, req.UserID)
			return err
		})
		if err != nil {
			s.logger.Error("Failed to credit eco action", zap.Error(err), zap.Int64("user_id", req.UserID))
			return nil, NewInternalError("failed to submit action")
		}

		s.leaderboard.Invalidate(ctx)
		s.publishBadgeEvents(ctx, req.UserID, earned)
	}

	if err := s.events.Publish(ctx, events.NewActionSubmittedEvent(
		req.UserID, action.ID, action.ActionType, action.Status)); err != nil {
		s.logger.Warn("Failed to publish action submitted event", zap.Error(err))
	}

	s.logger.Info("Eco action submitted",
		zap.Int64("action_id", action.ID),
		zap.Int64("user_id", req.UserID),
		zap.String("action_type", action.ActionType),
		zap.String("status", action.Status),
	)

	return action, nil
}

// GetByID retrieves a single action
func (s *actionService) GetByID(ctx context.Context, id int64) (*models.EcoAction, error) {
	action, err := s.repos.Action.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get eco action", zap.Error(err), zap.Int64("action_id", id))
		return nil, NewInternalError("failed to get action")
	}
	if action == nil {
		return nil, NewNotFoundError("action not found")
	}
	return action, nil
}

// ===============================
// MODERATION
// ===============================

// Review resolves an action. Reviewing into the status the action already has
// is a no-op, so repeated moderation clicks cannot double-credit. Moving an
// approved action to rejected revokes its points; earned badges stay.
func (s *actionService) Review(ctx context.Context, req *ReviewActionRequest) (*models.EcoAction, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid review request", err)
	}

	action, err := s.repos.Action.GetByID(ctx, req.ActionID)
	if err != nil {
		s.logger.Error("Failed to get action for review", zap.Error(err), zap.Int64("action_id", req.ActionID))
		return nil, NewInternalError("failed to review action")
	}
	if action == nil {
		return nil, NewNotFoundError("action not found")
	}

	target := models.ActionStatusRejected
	if req.Approve {
		target = models.ActionStatusApproved
	}
	if action.Status == target {
		return action, nil
	}

	delta := 0
	if target == models.ActionStatusApproved {
		delta = action.Points
	} else if action.Status == models.ActionStatusApproved {
		delta = -action.Points
	}

	var earned []*models.Badge
	err = s.repos.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.repos.Action.SetStatusTx(ctx, tx, action.ID, target, req.ReviewerID); err != nil {
			return err
		}
		if delta != 0 {
			if err := s.repos.User.AddPointsTx(ctx, tx, action.UserID, delta); err != nil {
				return err
			}
		}
		if target == models.ActionStatusApproved {
			var err error
			earned, err = s.badges.EvaluateTx(ctx, tx, action.UserID)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("action not found")
		}
		s.logger.Error("Failed to review action", zap.Error(err), zap.Int64("action_id", action.ID))
		return nil, NewInternalError("failed to review action")
	}

	now := time.Now()
	action.Status = target
	action.ReviewedBy = &req.ReviewerID
	action.ReviewedAt = &now

	if delta != 0 {
		s.leaderboard.Invalidate(ctx)
	}
	s.publishBadgeEvents(ctx, action.UserID, earned)

	if err := s.events.Publish(ctx, events.NewActionModeratedEvent(
		req.ReviewerID, action.UserID, action.ID, target, action.Points)); err != nil {
		s.logger.Warn("Failed to publish action moderated event", zap.Error(err))
	}

	s.logger.Info("Eco action reviewed",
		zap.Int64("action_id", action.ID),
		zap.Int64("reviewer_id", req.ReviewerID),
		zap.String("status", target),
	)

	return action, nil
}

// Delete removes an action. Owners may delete their own pending actions;
// admins may delete any. Deleting an approved action revokes its points.
func (s *actionService) Delete(ctx context.Context, actorID int64, actorRole string, actionID int64) error {
	action, err := s.repos.Action.GetByID(ctx, actionID)
	if err != nil {
		s.logger.Error("Failed to get action for deletion", zap.Error(err), zap.Int64("action_id", actionID))
		return NewInternalError("failed to delete action")
	}
	if action == nil {
		return NewNotFoundError("action not found")
	}

	isAdmin := actorRole == models.RoleAdmin
	if !isAdmin {
		if !action.IsOwnedBy(actorID) {
			return NewForbiddenError("you can only delete your own actions")
		}
		if !action.IsPending() {
			return NewForbiddenError("resolved actions can only be removed by an admin")
		}
	}

	if action.Status == models.ActionStatusApproved {
		err = s.repos.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := s.repos.User.AddPointsTx(ctx, tx, action.UserID, -action.Points); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `DELETE FROM eco_actions WHERE id = $1`, action.ID)
			return err
		})
		if err == nil {
			s.leaderboard.Invalidate(ctx)
		}
	} else {
		err = s.repos.Action.Delete(ctx, action.ID)
	}
	if err != nil {
		s.logger.Error("Failed to delete action", zap.Error(err), zap.Int64("action_id", actionID))
		return NewInternalError("failed to delete action")
	}

	s.logger.Info("Eco action deleted",
		zap.Int64("action_id", actionID),
		zap.Int64("actor_id", actorID),
		zap.Bool("by_admin", isAdmin),
	)
	return nil
}

// ===============================
// FEEDS
// ===============================

// ListApproved returns the public feed
func (s *actionService) ListApproved(ctx context.Context, req *ListActionsRequest) (*models.PaginatedResponse[*models.EcoAction], error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid list request", err)
	}
	page, err := s.repos.Action.ListApproved(ctx, req.ActionType, s.pageParams(req))
	if err != nil {
		return nil, s.listError(err, "failed to list actions")
	}
	return page, nil
}

// ListByUser returns one user's actions
func (s *actionService) ListByUser(ctx context.Context, req *ListActionsRequest) (*models.PaginatedResponse[*models.EcoAction], error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid list request", err)
	}
	if req.UserID == nil {
		return nil, NewValidationError("user id is required", nil)
	}
	page, err := s.repos.Action.ListByUser(ctx, *req.UserID, req.ActionType, s.pageParams(req))
	if err != nil {
		return nil, s.listError(err, "failed to list actions")
	}
	return page, nil
}

// ListPending returns the moderation queue
func (s *actionService) ListPending(ctx context.Context, req *ListActionsRequest) (*models.PaginatedResponse[*models.EcoAction], error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid list request", err)
	}
	page, err := s.repos.Action.ListPending(ctx, s.pageParams(req))
	if err != nil {
		return nil, s.listError(err, "failed to list pending actions")
	}
	return page, nil
}

func (s *actionService) pageParams(req *ListActionsRequest) models.PaginationParams {
	return models.PaginationParams{Cursor: req.Cursor, Limit: req.Limit}
}

func (s *actionService) listError(err error, message string) error {
	if errors.Is(err, repositories.ErrBadCursor) {
		return NewValidationError(err.Error(), nil)
	}
	s.logger.Error(message, zap.Error(err))
	return NewInternalError(message)
}

func (s *actionService) publishBadgeEvents(ctx context.Context, userID int64, earned []*models.Badge) {
	for _, badge := range earned {
		if err := s.events.Publish(ctx, events.NewBadgeAwardedEvent(userID, badge.ID, badge.Name)); err != nil {
			s.logger.Warn("Failed to publish badge awarded event", zap.Error(err))
		}
	}
}
