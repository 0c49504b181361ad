// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User roles
const (
	RoleRegular = "regular"
	RoleAdmin   = "admin"
)

// User represents a platform member
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email,omitempty" db:"email" validate:"required,email,max=255"`

	// Authentication
	PasswordHash string `json:"-" db:"password_hash"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	// System fields
	Role   string `json:"role" db:"role" validate:"required,oneof=regular admin"`
	Points int    `json:"points" db:"points"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Computed/joined fields (not in DB)
	BadgeCount     int `json:"badge_count,omitempty" db:"-"`
	ApprovedCount  int `json:"approved_action_count,omitempty" db:"-"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidateUserRole validates the role enum
func ValidateUserRole(role string) bool {
	return role == RoleRegular || role == RoleAdmin
}

// Session represents a revocable server-side session
type Session struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id" validate:"required"`
	SessionToken string    `json:"-" db:"session_token" validate:"required"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at" validate:"required"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LastActivity time.Time `json:"last_activity" db:"last_activity"`

	// Joined fields
	UserRole     string `json:"user_role,omitempty" db:"-"`
	UserIsActive bool   `json:"-" db:"-"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams holds cursor pagination input
type PaginationParams struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta describes the page returned
type PaginationMeta struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
	PerPage    int    `json:"per_page"`
}
