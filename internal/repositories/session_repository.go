// file: internal/repositories/session_repository.go
package repositories

import (
	"context"
	"ecotrack/internal/database"
	"ecotrack/internal/models"
	"fmt"

	"go.uber.org/zap"
)

// sessionRepository implements SessionRepository
type sessionRepository struct {
	*BaseRepository
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.Manager, logger *zap.Logger) SessionRepository {
	return &sessionRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create stores a new session
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, session_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, last_activity`

	err := r.QueryRowContext(
		ctx, query,
		session.UserID, session.SessionToken, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt, &session.LastActivity)

	if err != nil {
		r.GetLogger().Error("Failed to create session",
			zap.Error(err),
			zap.Int64("user_id", session.UserID),
		)
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.GetLogger().Debug("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("user_id", session.UserID),
		zap.String("token", truncateToken(session.SessionToken)),
	)

	return nil
}

// GetByToken retrieves a live session together with the owning user's role
// and active flag. Expired sessions are not returned.
func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT s.id, s.user_id, s.session_token, s.expires_at,
		       s.created_at, s.last_activity,
		       u.role, u.is_active
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.session_token = $1 AND s.expires_at > CURRENT_TIMESTAMP`

	var session models.Session
	err := r.QueryRowContext(ctx, query, token).Scan(
		&session.ID, &session.UserID, &session.SessionToken,
		&session.ExpiresAt, &session.CreatedAt, &session.LastActivity,
		&session.UserRole, &session.UserIsActive,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// Delete removes a session by token
func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	result, err := r.ExecContext(ctx, `DELETE FROM sessions WHERE session_token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("session not found")
	}

	r.GetLogger().Debug("Session deleted", zap.String("token", truncateToken(token)))
	return nil
}

// DeleteByUserID removes every session for a user
func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID int64) (int, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}

	affected, _ := result.RowsAffected()
	r.GetLogger().Info("User sessions deleted",
		zap.Int64("user_id", userID),
		zap.Int64("count", affected),
	)
	return int(affected), nil
}

// DeleteExpired removes expired sessions and returns the number removed
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected > 0 {
		r.GetLogger().Info("Expired sessions swept", zap.Int64("count", affected))
	}
	return int(affected), nil
}

// CountByUserID counts live sessions for a user
func (r *sessionRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id = $1 AND expires_at > CURRENT_TIMESTAMP`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// DeleteOldest evicts sessions beyond keep, newest first retained
func (r *sessionRepository) DeleteOldest(ctx context.Context, userID int64, keep int) error {
	query := `
		DELETE FROM sessions
		WHERE id IN (
			SELECT id FROM sessions
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			OFFSET $2
		)`

	_, err := r.ExecContext(ctx, query, userID, keep)
	if err != nil {
		return fmt.Errorf("failed to evict oldest sessions: %w", err)
	}
	return nil
}

// RefreshActivity bumps the session's last activity timestamp
func (r *sessionRepository) RefreshActivity(ctx context.Context, token string) error {
	_, err := r.ExecContext(ctx,
		`UPDATE sessions SET last_activity = CURRENT_TIMESTAMP WHERE session_token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh session activity: %w", err)
	}
	return nil
}

// truncateToken keeps logs free of usable session tokens
func truncateToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
