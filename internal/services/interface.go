// file: internal/services/interface.go
package services

import (
	"context"
	"database/sql"
	"ecotrack/internal/models"
)

// AuthService handles registration, login, and session lifecycle
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, req *LogoutRequest) error
	ChangePassword(ctx context.Context, req *ChangePasswordRequest) error

	// ValidateToken checks a bearer token and returns the live session
	ValidateToken(ctx context.Context, token string) (*models.Session, error)

	// EnsureBootstrapAdmin guarantees the protected admin account exists
	EnsureBootstrapAdmin(ctx context.Context) (*models.User, error)

	// CleanupExpiredSessions removes dead sessions, returning the count
	CleanupExpiredSessions(ctx context.Context) (int, error)
}

// ActionService handles eco action submission and moderation
type ActionService interface {
	Submit(ctx context.Context, req *SubmitActionRequest) (*models.EcoAction, error)
	GetByID(ctx context.Context, id int64) (*models.EcoAction, error)
	Review(ctx context.Context, req *ReviewActionRequest) (*models.EcoAction, error)
	Delete(ctx context.Context, actorID int64, actorRole string, actionID int64) error

	ListApproved(ctx context.Context, req *ListActionsRequest) (*models.PaginatedResponse[*models.EcoAction], error)
	ListByUser(ctx context.Context, req *ListActionsRequest) (*models.PaginatedResponse[*models.EcoAction], error)
	ListPending(ctx context.Context, req *ListActionsRequest) (*models.PaginatedResponse[*models.EcoAction], error)
}

// BadgeService evaluates and lists badges
type BadgeService interface {
	ListActive(ctx context.Context) ([]*models.Badge, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.UserBadge, error)

	// EvaluateTx awards every badge whose requirement the user's totals now
	// meet, inside the crediting transaction. Returns the newly earned badges.
	EvaluateTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.Badge, error)

	// ReconcileAll re-evaluates every active user, catching up awards missed
	// by requirement changes or manual point edits
	ReconcileAll(ctx context.Context) (int, error)
}

// LeaderboardService produces ranked standings
type LeaderboardService interface {
	Top(ctx context.Context, req *LeaderboardRequest) (*LeaderboardResponse, error)
	Standing(ctx context.Context, userID int64, req *LeaderboardRequest) (*models.LeaderboardEntry, error)

	// Invalidate drops cached leaderboards after a scoring change
	Invalidate(ctx context.Context)
}

// LocationService handles community map locations
type LocationService interface {
	Suggest(ctx context.Context, req *SuggestLocationRequest) (*models.Location, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	ListApproved(ctx context.Context, locationType string) ([]*models.Location, error)
	ListPending(ctx context.Context) ([]*models.Location, error)
	Approve(ctx context.Context, adminID, locationID int64) (*models.Location, error)
	Delete(ctx context.Context, adminID, locationID int64) error
}

// UserService handles profiles and admin account moderation
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.User], error)
	UpdateRole(ctx context.Context, req *UpdateRoleRequest) (*models.User, error)
	SetActive(ctx context.Context, req *SetActiveRequest) (*models.User, error)
}

// StatsService aggregates public platform counters
type StatsService interface {
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// FileService stores action photos
type FileService interface {
	UploadImage(ctx context.Context, req *FileUploadRequest) (*FileUploadResponse, error)
	DeleteFile(ctx context.Context, publicID string) error
	Health(ctx context.Context) error
}
