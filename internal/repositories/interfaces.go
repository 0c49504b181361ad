// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"database/sql"
	"ecotrack/internal/models"
	"time"
)

// UserRepository defines the contract for user data operations
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error)

	// Admin operations
	UpdateRole(ctx context.Context, id int64, role string) error
	SetActive(ctx context.Context, id int64, active bool) error

	// Scoring; run inside the crediting transaction
	AddPointsTx(ctx context.Context, tx *sql.Tx, userID int64, delta int) error
	TotalsTx(ctx context.Context, tx *sql.Tx, userID int64) (points int, approvedActions int, err error)

	// Profile and leaderboard reads
	GetWithStats(ctx context.Context, id int64) (*models.User, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Standing(ctx context.Context, userID int64) (*models.LeaderboardEntry, error)
	ListActiveIDs(ctx context.Context) ([]int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// SessionRepository defines the contract for session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	DeleteOldest(ctx context.Context, userID int64, keep int) error
	RefreshActivity(ctx context.Context, token string) error
}

// ActionRepository defines the contract for eco action data operations
type ActionRepository interface {
	Create(ctx context.Context, action *models.EcoAction) error
	CreateTx(ctx context.Context, tx *sql.Tx, action *models.EcoAction) error
	GetByID(ctx context.Context, id int64) (*models.EcoAction, error)
	SetStatusTx(ctx context.Context, tx *sql.Tx, id int64, status string, reviewerID int64) error
	Delete(ctx context.Context, id int64) error

	ListByUser(ctx context.Context, userID int64, actionType string, params models.PaginationParams) (*models.PaginatedResponse[*models.EcoAction], error)
	ListApproved(ctx context.Context, actionType string, params models.PaginationParams) (*models.PaginatedResponse[*models.EcoAction], error)
	ListPending(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.EcoAction], error)

	// Leaderboard aggregates over approved actions; since == nil means all time
	Leaderboard(ctx context.Context, since *time.Time, actionType string, limit int) ([]models.LeaderboardEntry, error)
	Standing(ctx context.Context, userID int64, since *time.Time, actionType string) (*models.LeaderboardEntry, error)
}

// BadgeRepository defines the contract for badge data operations
type BadgeRepository interface {
	List(ctx context.Context) ([]*models.Badge, error)
	ListActive(ctx context.Context) ([]*models.Badge, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.UserBadge, error)

	// AwardTx inserts an award inside the crediting transaction. Returns false
	// when the user already held the badge.
	AwardTx(ctx context.Context, tx *sql.Tx, userID, badgeID int64) (bool, error)
}

// LocationRepository defines the contract for location data operations
type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	ListApproved(ctx context.Context, locationType string) ([]*models.Location, error)
	ListPending(ctx context.Context) ([]*models.Location, error)
	Approve(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// StatsRepository aggregates public platform counters
type StatsRepository interface {
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}
