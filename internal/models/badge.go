package models

import "time"

// Badge requirement kinds
const (
	BadgeRequirementPoints  = "points"
	BadgeRequirementActions = "actions"
)

// Badge represents an achievement badge that users can earn
// by accumulating points or approved actions.
type Badge struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	Icon             string    `json:"icon" db:"icon"`
	RequirementType  string    `json:"requirement_type" db:"requirement_type"`
	RequirementValue int       `json:"requirement_value" db:"requirement_value"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// MetBy reports whether a user with the given totals qualifies for the badge.
// The answer depends only on current totals, never on award history.
func (b *Badge) MetBy(points, approvedActions int) bool {
	switch b.RequirementType {
	case BadgeRequirementPoints:
		return points >= b.RequirementValue
	case BadgeRequirementActions:
		return approvedActions >= b.RequirementValue
	default:
		return false
	}
}

// UserBadge records a badge a user has earned. Awards are permanent.
type UserBadge struct {
	UserID   int64     `json:"user_id" db:"user_id"`
	BadgeID  int64     `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`

	// Joined fields
	Badge *Badge `json:"badge,omitempty" db:"-"`
}
