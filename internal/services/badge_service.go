// file: internal/services/badge_service.go
package services

import (
	"context"
	"database/sql"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"time"

	"go.uber.org/zap"
)

// badgeService implements BadgeService
type badgeService struct {
	repos  *repositories.Collection
	logger *zap.Logger
}

// NewBadgeService creates a new badge service
func NewBadgeService(repos *repositories.Collection, logger *zap.Logger) BadgeService {
	return &badgeService{
		repos:  repos,
		logger: logger,
	}
}

// ListActive returns every badge currently awardable
func (s *badgeService) ListActive(ctx context.Context) ([]*models.Badge, error) {
	badges, err := s.repos.Badge.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list badges", zap.Error(err))
		return nil, NewInternalError("failed to list badges")
	}
	return badges, nil
}

// ListForUser returns the badges a user has earned
func (s *badgeService) ListForUser(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	earned, err := s.repos.Badge.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list user badges", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewInternalError("failed to list badges")
	}
	return earned, nil
}

// EvaluateTx awards every active badge the user's current totals satisfy.
// Whether a badge is due depends only on the totals, never on the order in
// which actions were credited, and the insert is idempotent, so concurrent
// evaluations converge on the same award set.
func (s *badgeService) EvaluateTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.Badge, error) {
	points, approvedActions, err := s.repos.User.TotalsTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.repos.Badge.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var earned []*models.Badge
	for _, badge := range badges {
		if !badge.MetBy(points, approvedActions) {
			continue
		}
		awarded, err := s.repos.Badge.AwardTx(ctx, tx, userID, badge.ID)
		if err != nil {
			return nil, err
		}
		if awarded {
			earned = append(earned, badge)
			s.logger.Info("Badge awarded",
				zap.Int64("user_id", userID),
				zap.Int64("badge_id", badge.ID),
				zap.String("badge", badge.Name),
			)
		}
	}

	return earned, nil
}

// ReconcileAll re-evaluates every active user against the current badge set.
// Returns the number of awards created. Used after requirement changes and
// optionally at startup.
func (s *badgeService) ReconcileAll(ctx context.Context) (int, error) {
	start := time.Now()

	userIDs, err := s.repos.User.ListActiveIDs(ctx)
	if err != nil {
		return 0, NewInternalError("failed to list users for reconciliation")
	}

	total := 0
	for _, userID := range userIDs {
		var earned []*models.Badge
		err := s.repos.WithTransaction(ctx, func(tx *sql.Tx) error {
			var err error
			earned, err = s.EvaluateTx(ctx, tx, userID)
			return err
		})
		if err != nil {
			s.logger.Error("Failed to reconcile badges for user",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
			continue
		}
		total += len(earned)
	}

	s.logger.Info("Badge reconciliation complete",
		zap.Int("users", len(userIDs)),
		zap.Int("awards", total),
		zap.Duration("took", time.Since(start)),
	)
	return total, nil
}
