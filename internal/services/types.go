// file: internal/services/types.go
package services

import (
	"ecotrack/internal/models"
	"io"
	"time"
)

// ===============================
// AUTH SERVICE TYPES
// ===============================

// RegisterRequest carries a new account registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest authenticates by email or username
type LoginRequest struct {
	Login     string `json:"login" validate:"required,max=254"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LogoutRequest invalidates one session, or all of the user's sessions
type LogoutRequest struct {
	SessionToken string `json:"-" validate:"required"`
	LogoutAll    bool   `json:"logout_all"`
}

// ChangePasswordRequest rotates a password and revokes other sessions
type ChangePasswordRequest struct {
	UserID          int64  `json:"-" validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	SessionToken    string `json:"-"`
}

// AuthResponse is returned from register and login
type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
}

// ===============================
// ACTION SERVICE TYPES
// ===============================

// SubmitActionRequest logs a new eco action. Points are derived from the
// action type server-side; any client-supplied value is ignored.
type SubmitActionRequest struct {
	UserID       int64  `json:"-" validate:"required"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	ActionType   string `json:"action_type" validate:"required,max=30"`
	LocationName string `json:"location_name" validate:"max=200"`
	PhotoURL     string `json:"photo_url" validate:"omitempty,url,max=500"`
}

// ReviewActionRequest resolves a pending action
type ReviewActionRequest struct {
	ActionID   int64 `json:"-" validate:"required"`
	ReviewerID int64 `json:"-" validate:"required"`
	Approve    bool  `json:"-"`
}

// ListActionsRequest filters an action feed
type ListActionsRequest struct {
	UserID     *int64 `json:"-"`
	ActionType string `json:"action_type" validate:"omitempty,max=30"`
	Cursor     string `json:"cursor"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ===============================
// LEADERBOARD SERVICE TYPES
// ===============================

// LeaderboardRequest selects a ranking window and category
type LeaderboardRequest struct {
	Period   string `json:"period" validate:"omitempty,oneof=all week month year"`
	Category string `json:"category" validate:"omitempty,max=30"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

// LeaderboardResponse is one ranked page plus its parameters
type LeaderboardResponse struct {
	Period      string                       `json:"period"`
	Category    string                       `json:"category"`
	Entries     []models.LeaderboardEntry    `json:"entries"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// ===============================
// LOCATION SERVICE TYPES
// ===============================

// SuggestLocationRequest submits a new map location for moderation
type SuggestLocationRequest struct {
	UserID       int64   `json:"-" validate:"required"`
	Name         string  `json:"name" validate:"required,max=200"`
	Description  string  `json:"description" validate:"max=2000"`
	LocationType string  `json:"location_type" validate:"required,oneof=park trail bike plant clean"`
	Latitude     float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"min=-180,max=180"`
}

// ===============================
// USER SERVICE TYPES
// ===============================

// UpdateRoleRequest changes a user's role
type UpdateRoleRequest struct {
	AdminID int64  `json:"-" validate:"required"`
	UserID  int64  `json:"-" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=regular admin"`
}

// SetActiveRequest activates or deactivates an account
type SetActiveRequest struct {
	AdminID int64 `json:"-" validate:"required"`
	UserID  int64 `json:"-" validate:"required"`
	Active  bool  `json:"-"`
}

// ===============================
// FILE SERVICE TYPES
// ===============================

// FileUploadRequest carries an uploaded photo
type FileUploadRequest struct {
	UserID      int64     `json:"-" validate:"required"`
	File        io.Reader `json:"-" validate:"required"`
	Filename    string    `json:"filename" validate:"required,max=255"`
	Size        int64     `json:"size" validate:"required,min=1"`
	ContentType string    `json:"content_type" validate:"required"`
	Folder      string    `json:"folder,omitempty"`
}

// FileUploadResponse describes a stored photo
type FileUploadResponse struct {
	URL        string    `json:"url"`
	PublicID   string    `json:"public_id"`
	Format     string    `json:"format"`
	Size       int64     `json:"size"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
