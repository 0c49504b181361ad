// file: internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"database/sql"
	"ecotrack/internal/database"
	"ecotrack/internal/models"
	"fmt"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new badge repository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const badgeColumns = `
	b.id, b.name, b.description, b.icon,
	b.requirement_type, b.requirement_value, b.is_active, b.created_at`

// List returns every badge, active or not
func (r *badgeRepository) List(ctx context.Context) ([]*models.Badge, error) {
	return r.listBadges(ctx, "")
}

// ListActive returns the badges currently awardable
func (r *badgeRepository) ListActive(ctx context.Context) ([]*models.Badge, error) {
	return r.listBadges(ctx, "WHERE b.is_active = TRUE")
}

func (r *badgeRepository) listBadges(ctx context.Context, where string) ([]*models.Badge, error) {
	query := `
		SELECT` + badgeColumns + `
		FROM badges b
		` + where + `
		ORDER BY b.requirement_type, b.requirement_value, b.id`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Description, &b.Icon,
			&b.RequirementType, &b.RequirementValue, &b.IsActive, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, &b)
	}
	return badges, rows.Err()
}

// ListByUser returns the badges a user has earned, newest first
func (r *badgeRepository) ListByUser(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	query := `
		SELECT ub.user_id, ub.badge_id, ub.earned_at,` + badgeColumns + `
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at DESC, ub.badge_id DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	defer rows.Close()

	var earned []*models.UserBadge
	for rows.Next() {
		var ub models.UserBadge
		var b models.Badge
		if err := rows.Scan(
			&ub.UserID, &ub.BadgeID, &ub.EarnedAt,
			&b.ID, &b.Name, &b.Description, &b.Icon,
			&b.RequirementType, &b.RequirementValue, &b.IsActive, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user badge: %w", err)
		}
		ub.Badge = &b
		earned = append(earned, &ub)
	}
	return earned, rows.Err()
}

const awardInsert = `
	INSERT INTO user_badges (user_id, badge_id)
	VALUES ($1, $2)
	ON CONFLICT (user_id, badge_id) DO NOTHING`

// AwardTx grants a badge inside a transaction. The award is idempotent; the
// return value reports whether this call actually created the grant.
func (r *badgeRepository) AwardTx(ctx context.Context, tx *sql.Tx, userID, badgeID int64) (bool, error) {
	result, err := tx.ExecContext(ctx, awardInsert, userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read award result: %w", err)
	}
	return affected > 0, nil
}
