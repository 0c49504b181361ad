// file: internal/repositories/action_repository.go
package repositories

import (
	"context"
	"database/sql"
	"ecotrack/internal/database"
	"ecotrack/internal/models"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// actionRepository implements ActionRepository
type actionRepository struct {
	*BaseRepository
}

// NewActionRepository creates a new eco action repository
func NewActionRepository(db *database.Manager, logger *zap.Logger) ActionRepository {
	return &actionRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const actionColumns = `
	a.id, a.user_id, a.title, a.description, a.action_type,
	a.location_name, a.photo_url, a.points, a.status,
	a.reviewed_by, a.reviewed_at, a.created_at, a.updated_at`

const actionInsert = `
	INSERT INTO eco_actions (
		user_id, title, description, action_type,
		location_name, photo_url, points, status, reviewed_by, reviewed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at, updated_at`

// Create stores a new eco action
func (r *actionRepository) Create(ctx context.Context, action *models.EcoAction) error {
	err := r.QueryRowContext(ctx, actionInsert,
		action.UserID, action.Title, nullString(action.Description), action.ActionType,
		nullString(action.LocationName), nullString(action.PhotoURL),
		action.Points, action.Status, action.ReviewedBy, action.ReviewedAt,
	).Scan(&action.ID, &action.CreatedAt, &action.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create eco action: %w", err)
	}
	return nil
}

// CreateTx stores a new eco action inside a transaction
func (r *actionRepository) CreateTx(ctx context.Context, tx *sql.Tx, action *models.EcoAction) error {
	err := tx.QueryRowContext(ctx, actionInsert,
		action.UserID, action.Title, nullString(action.Description), action.ActionType,
		nullString(action.LocationName), nullString(action.PhotoURL),
		action.Points, action.Status, action.ReviewedBy, action.ReviewedAt,
	).Scan(&action.ID, &action.CreatedAt, &action.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create eco action: %w", err)
	}
	return nil
}

// GetByID retrieves an eco action with its author's username
func (r *actionRepository) GetByID(ctx context.Context, id int64) (*models.EcoAction, error) {
	query := `
		SELECT` + actionColumns + `, u.username
		FROM eco_actions a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = $1`

	action, err := r.scanAction(r.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return action, nil
}

func (r *actionRepository) scanAction(row *sql.Row) (*models.EcoAction, error) {
	var a models.EcoAction
	var description, locationName, photoURL sql.NullString
	err := row.Scan(
		&a.ID, &a.UserID, &a.Title, &description, &a.ActionType,
		&locationName, &photoURL, &a.Points, &a.Status,
		&a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.Username,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get eco action: %w", err)
	}
	a.Description = description.String
	a.LocationName = locationName.String
	a.PhotoURL = photoURL.String
	return &a, nil
}

// SetStatusTx flips an action's status inside the given transaction
func (r *actionRepository) SetStatusTx(ctx context.Context, tx *sql.Tx, id int64, status string, reviewerID int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE eco_actions
		SET status = $1, reviewed_by = $2, reviewed_at = CURRENT_TIMESTAMP,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`,
		status, reviewerID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update action status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an eco action
func (r *actionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM eco_actions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete eco action: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===============================
// LISTS
// ===============================

// ListByUser returns one user's actions, optionally filtered by type
func (r *actionRepository) ListByUser(ctx context.Context, userID int64, actionType string, params models.PaginationParams) (*models.PaginatedResponse[*models.EcoAction], error) {
	where := []string{"a.user_id = $1"}
	args := []interface{}{userID}
	if actionType != "" {
		where = append(where, fmt.Sprintf("a.action_type = $%d", len(args)+1))
		args = append(args, actionType)
	}
	return r.listActions(ctx, where, args, params)
}

// ListApproved returns the public approved feed, optionally filtered by type
func (r *actionRepository) ListApproved(ctx context.Context, actionType string, params models.PaginationParams) (*models.PaginatedResponse[*models.EcoAction], error) {
	where := []string{"a.status = 'approved'"}
	var args []interface{}
	if actionType != "" {
		where = append(where, fmt.Sprintf("a.action_type = $%d", len(args)+1))
		args = append(args, actionType)
	}
	return r.listActions(ctx, where, args, params)
}

// ListPending returns the moderation queue
func (r *actionRepository) ListPending(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.EcoAction], error) {
	return r.listActions(ctx, []string{"a.status = 'pending'"}, nil, params)
}

func (r *actionRepository) listActions(ctx context.Context, where []string, args []interface{}, params models.PaginationParams) (*models.PaginatedResponse[*models.EcoAction], error) {
	page, err := r.BuildKeysetPage(params, len(args))
	if err != nil {
		return nil, err
	}
	if page.Where != "" {
		// The keyset predicate addresses the action table's own columns.
		where = append(where, "(a.created_at, a.id) < ("+placeholder(len(args)+1)+", "+placeholder(len(args)+2)+")")
		args = append(args, page.Args...)
	}

	query := `
		SELECT` + actionColumns + `, u.username
		FROM eco_actions a
		JOIN users u ON u.id = a.user_id
		WHERE ` + joinAnd(where) + `
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ` + fmt.Sprintf("%d", page.Limit+1)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list eco actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.EcoAction
	for rows.Next() {
		var a models.EcoAction
		var description, locationName, photoURL sql.NullString
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Title, &description, &a.ActionType,
			&locationName, &photoURL, &a.Points, &a.Status,
			&a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt, &a.UpdatedAt,
			&a.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan eco action: %w", err)
		}
		a.Description = description.String
		a.LocationName = locationName.String
		a.PhotoURL = photoURL.String
		actions = append(actions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(actions) > page.Limit
	if hasMore {
		actions = actions[:page.Limit]
	}

	resp := &models.PaginatedResponse[*models.EcoAction]{Data: actions}
	if len(actions) > 0 {
		last := actions[len(actions)-1]
		resp.Pagination = r.PageMeta(page.Limit, hasMore, last.CreatedAt, last.ID)
	} else {
		resp.Pagination = r.PageMeta(page.Limit, false, time.Time{}, 0)
	}
	return resp, nil
}

// ===============================
// LEADERBOARD AGGREGATES
// ===============================

func actionTotalsQuery(since *time.Time, actionType string) (string, []interface{}) {
	where := []string{"a.status = 'approved'"}
	var args []interface{}
	if since != nil {
		args = append(args, *since)
		where = append(where, fmt.Sprintf("a.reviewed_at >= $%d", len(args)))
	}
	if actionType != "" {
		args = append(args, actionType)
		where = append(where, fmt.Sprintf("a.action_type = $%d", len(args)))
	}

	query := `
	SELECT u.id AS user_id, u.username,
	       COALESCE(SUM(a.points), 0) AS points,
	       COUNT(a.id) AS action_count
	FROM users u
	JOIN eco_actions a ON a.user_id = u.id AND ` + joinAnd(where) + `
	WHERE u.is_active = TRUE
	GROUP BY u.id, u.username`

	return query, args
}

// Leaderboard aggregates approved actions over a window and/or category.
// Entries are ordered by (points desc, action count desc, user id asc).
func (r *actionRepository) Leaderboard(ctx context.Context, since *time.Time, actionType string, limit int) ([]models.LeaderboardEntry, error) {
	totals, args := actionTotalsQuery(since, actionType)
	args = append(args, limit)
	query := totals + fmt.Sprintf(`
	ORDER BY points DESC, action_count DESC, user_id ASC
	LIMIT $%d`, len(args))

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query action leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Points, &e.ActionCount); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	models.AssignRanks(entries)
	return entries, nil
}

// Standing returns one user's rank within a window/category
func (r *actionRepository) Standing(ctx context.Context, userID int64, since *time.Time, actionType string) (*models.LeaderboardEntry, error) {
	totals, args := actionTotalsQuery(since, actionType)
	args = append(args, userID)
	query := `
	WITH totals AS (` + totals + `),
	ranked AS (
		SELECT user_id, username, points, action_count,
		       ROW_NUMBER() OVER (ORDER BY points DESC, action_count DESC, user_id ASC) AS rnk
		FROM totals
	)
	SELECT user_id, username, points, action_count, rnk
	FROM ranked
	WHERE user_id = ` + placeholder(len(args))

	var e models.LeaderboardEntry
	err := r.QueryRowContext(ctx, query, args...).Scan(
		&e.UserID, &e.Username, &e.Points, &e.ActionCount, &e.Rank,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get action standing: %w", err)
	}
	return &e, nil
}

// ===============================
// SQL HELPERS
// ===============================

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func joinAnd(clauses []string) string {
	out := ""
	for i, c := range clauses {
		if i > 0 {
			out += " AND "
		}
		out += c
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
