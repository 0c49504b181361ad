// file: internal/repositories/location_repository.go
package repositories

import (
	"context"
	"database/sql"
	"ecotrack/internal/database"
	"ecotrack/internal/models"
	"fmt"

	"go.uber.org/zap"
)

// locationRepository implements LocationRepository
type locationRepository struct {
	*BaseRepository
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *database.Manager, logger *zap.Logger) LocationRepository {
	return &locationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const locationColumns = `
	l.id, l.name, l.description, l.location_type,
	l.latitude, l.longitude, l.approved, l.suggested_by, l.created_at`

// Create stores a new location suggestion
func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO locations (
			name, description, location_type, latitude, longitude, approved, suggested_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		location.Name, nullString(location.Description), location.LocationType,
		location.Latitude, location.Longitude, location.Approved, location.SuggestedBy,
	).Scan(&location.ID, &location.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// GetByID retrieves a location by ID
func (r *locationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	query := `SELECT` + locationColumns + ` FROM locations l WHERE l.id = $1`

	var l models.Location
	var description sql.NullString
	err := r.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &description, &l.LocationType,
		&l.Latitude, &l.Longitude, &l.Approved, &l.SuggestedBy, &l.CreatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	l.Description = description.String
	return &l, nil
}

// ListApproved returns the public map pins, optionally filtered by type
func (r *locationRepository) ListApproved(ctx context.Context, locationType string) ([]*models.Location, error) {
	where := []string{"l.approved = TRUE"}
	var args []interface{}
	if locationType != "" {
		args = append(args, locationType)
		where = append(where, fmt.Sprintf("l.location_type = $%d", len(args)))
	}
	return r.listLocations(ctx, where, args)
}

// ListPending returns the moderation queue for suggested locations
func (r *locationRepository) ListPending(ctx context.Context) ([]*models.Location, error) {
	return r.listLocations(ctx, []string{"l.approved = FALSE"}, nil)
}

func (r *locationRepository) listLocations(ctx context.Context, where []string, args []interface{}) ([]*models.Location, error) {
	query := `
		SELECT` + locationColumns + `
		FROM locations l
		WHERE ` + joinAnd(where) + `
		ORDER BY l.created_at DESC, l.id DESC`

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		var l models.Location
		var description sql.NullString
		if err := rows.Scan(
			&l.ID, &l.Name, &description, &l.LocationType,
			&l.Latitude, &l.Longitude, &l.Approved, &l.SuggestedBy, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		l.Description = description.String
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

// Approve publishes a suggested location
func (r *locationRepository) Approve(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx,
		`UPDATE locations SET approved = TRUE WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("failed to approve location: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a location
func (r *locationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
