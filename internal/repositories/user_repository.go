// file: internal/repositories/user_repository.go
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

// userRepository implements UserRepository
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, points, is_active, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
	).Scan(
		&user.ID, &user.Points, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		r.GetLogger().Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("User created successfully",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return nil
}

const userColumns = `
	id, username, email, password_hash, role, points,
	is_active, created_at, updated_at`

func userSelect(clause string) string {
	return `SELECT` + userColumns + `
	FROM users` + clause
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.Points, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := userSelect(` WHERE id = $1`)
	return r.scanUser(r.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := userSelect(` WHERE LOWER(email) = LOWER($1)`)
	return r.scanUser(r.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves a user by username, case-insensitively
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := userSelect(` WHERE LOWER(username) = LOWER($1)`)
	return r.scanUser(r.QueryRowContext(ctx, query, username))
}

// List returns users ordered by (created_at, id) descending with cursor
// pagination.
func (r *userRepository) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error) {
	page, err := r.BuildKeysetPage(params, 0)
	if err != nil {
		return nil, err
	}

	query := userSelect(``)
	if page.Where != "" {
		query += " WHERE " + page.Where
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT %d", page.Limit+1)

	rows, err := r.QueryContext(ctx, query, page.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.Role, &user.Points, &user.IsActive,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.PasswordHash = ""
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(users) > page.Limit
	if hasMore {
		users = users[:page.Limit]
	}

	resp := &models.PaginatedResponse[*models.User]{Data: users}
	if len(users) > 0 {
		last := users[len(users)-1]
		resp.Pagination = r.PageMeta(page.Limit, hasMore, last.CreatedAt, last.ID)
	} else {
		resp.Pagination = r.PageMeta(page.Limit, false, time.Time{}, 0)
	}
	return resp, nil
}

// ===============================
// ADMIN OPERATIONS
// ===============================

// UpdateRole changes a user's role
func (r *userRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	result, err := r.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		role, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetActive toggles a user's active flag
func (r *userRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.ExecContext(ctx,
		`UPDATE users SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set user active state: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePassword stores a new password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===============================
// SCORING
// ===============================

// AddPointsTx credits (or debits) points inside the given transaction
func (r *userRepository) AddPointsTx(ctx context.Context, tx *sql.Tx, userID int64, delta int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE users SET points = GREATEST(points + $1, 0), updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		delta, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust points: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TotalsTx reads the totals badge evaluation depends on, inside the same
// transaction that changed them.
func (r *userRepository) TotalsTx(ctx context.Context, tx *sql.Tx, userID int64) (int, int, error) {
	var points, approved int
	err := tx.QueryRowContext(ctx, `
		SELECT u.points,
		       (SELECT COUNT(*) FROM eco_actions a WHERE a.user_id = u.id AND a.status = 'approved')
		FROM users u
		WHERE u.id = $1`,
		userID,
	).Scan(&points, &approved)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read user totals: %w", err)
	}
	return points, approved, nil
}

// ===============================
// PROFILE AND LEADERBOARD READS
// ===============================

// GetWithStats retrieves a user together with badge and approved-action counts
func (r *userRepository) GetWithStats(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.role, u.points, u.is_active,
		       u.created_at, u.updated_at,
		       (SELECT COUNT(*) FROM user_badges ub WHERE ub.user_id = u.id) AS badge_count,
		       (SELECT COUNT(*) FROM eco_actions a WHERE a.user_id = u.id AND a.status = 'approved') AS approved_count
		FROM users u
		WHERE u.id = $1`

	var user models.User
	err := r.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Role, &user.Points,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&user.BadgeCount, &user.ApprovedCount,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user with stats: %w", err)
	}
	return &user, nil
}

const leaderboardTotals = `
	SELECT u.id AS user_id, u.username, u.points,
	       COALESCE(a.cnt, 0) AS action_count
	FROM users u
	LEFT JOIN (
		SELECT user_id, COUNT(*) AS cnt
		FROM eco_actions
		WHERE status = 'approved'
		GROUP BY user_id
	) a ON a.user_id = u.id
	WHERE u.is_active = TRUE`

// Leaderboard returns the all-time overall standings ordered by
// (points desc, approved actions desc, user id asc).
func (r *userRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := leaderboardTotals + `
	ORDER BY u.points DESC, COALESCE(a.cnt, 0) DESC, u.id ASC
	LIMIT $1`

	rows, err := r.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
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

// Standing returns one user's all-time overall rank
func (r *userRepository) Standing(ctx context.Context, userID int64) (*models.LeaderboardEntry, error) {
	query := `
	WITH totals AS (` + leaderboardTotals + `),
	ranked AS (
		SELECT user_id, username, points, action_count,
		       ROW_NUMBER() OVER (ORDER BY points DESC, action_count DESC, user_id ASC) AS rnk
		FROM totals
	)
	SELECT user_id, username, points, action_count, rnk
	FROM ranked
	WHERE user_id = $1`

	var e models.LeaderboardEntry
	err := r.QueryRowContext(ctx, query, userID).Scan(
		&e.UserID, &e.Username, &e.Points, &e.ActionCount, &e.Rank,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get standing: %w", err)
	}
	return &e, nil
}

// ListActiveIDs returns the ids of every active user, for badge reconciliation
func (r *userRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.QueryContext(ctx, `SELECT id FROM users WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
