// file: internal/repositories/stats_repository.go
package repositories

import (
	"context"
	"ecotrack/internal/database"
	"ecotrack/internal/models"
	"fmt"

	"go.uber.org/zap"
)

// statsRepository implements StatsRepository
type statsRepository struct {
	*BaseRepository
}

// NewStatsRepository creates a new platform stats repository
func NewStatsRepository(db *database.Manager, logger *zap.Logger) StatsRepository {
	return &statsRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// PlatformStats aggregates the public platform counters in one round trip
// per concern.
func (r *statsRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	stats := &models.PlatformStats{
		ActionsByType:   make(map[string]int),
		LocationsByType: make(map[string]int),
	}

	err := r.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM eco_actions WHERE status = 'approved'),
			(SELECT COALESCE(SUM(points), 0) FROM eco_actions WHERE status = 'approved'),
			(SELECT COUNT(*) FROM user_badges)`,
	).Scan(
		&stats.TotalUsers,
		&stats.TotalApprovedActions,
		&stats.TotalPointsAwarded,
		&stats.BadgesAwarded,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform counters: %w", err)
	}

	if err := r.countByType(ctx,
		`SELECT action_type, COUNT(*) FROM eco_actions WHERE status = 'approved' GROUP BY action_type`,
		stats.ActionsByType,
	); err != nil {
		return nil, fmt.Errorf("failed to count actions by type: %w", err)
	}

	if err := r.countByType(ctx,
		`SELECT location_type, COUNT(*) FROM locations WHERE approved = TRUE GROUP BY location_type`,
		stats.LocationsByType,
	); err != nil {
		return nil, fmt.Errorf("failed to count locations by type: %w", err)
	}

	return stats, nil
}

func (r *statsRepository) countByType(ctx context.Context, query string, dest map[string]int) error {
	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return err
		}
		dest[kind] = count
	}
	return rows.Err()
}
