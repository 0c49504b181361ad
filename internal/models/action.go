package models

import "time"

// Eco action statuses
const (
	ActionStatusPending  = "pending"
	ActionStatusApproved = "approved"
	ActionStatusRejected = "rejected"
)

// Known action types. Unknown types are accepted and scored at the default.
const (
	ActionTypeTree      = "tree"
	ActionTypeClean     = "clean"
	ActionTypeBike      = "bike"
	ActionTypeRecycle   = "recycle"
	ActionTypeEducation = "education"
)

// DefaultActionPoints is awarded for action types outside the fixed table.
const DefaultActionPoints = 5

// actionPoints is the fixed scoring table. Clients never set points.
var actionPoints = map[string]int{
	ActionTypeTree:      15,
	ActionTypeClean:     10,
	ActionTypeBike:      5,
	ActionTypeRecycle:   8,
	ActionTypeEducation: 3,
}

// PointsForAction returns the points an action of the given type is worth
func PointsForAction(actionType string) int {
	if points, ok := actionPoints[actionType]; ok {
		return points
	}
	return DefaultActionPoints
}

// KnownActionTypes returns the types in the scoring table
func KnownActionTypes() []string {
	return []string{ActionTypeTree, ActionTypeClean, ActionTypeBike, ActionTypeRecycle, ActionTypeEducation}
}

// ValidateActionStatus validates the status enum
func ValidateActionStatus(status string) bool {
	switch status {
	case ActionStatusPending, ActionStatusApproved, ActionStatusRejected:
		return true
	}
	return false
}

// EcoAction represents a logged eco activity
type EcoAction struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	Title        string     `json:"title" db:"title" validate:"required,max=200"`
	Description  string     `json:"description,omitempty" db:"description"`
	ActionType   string     `json:"action_type" db:"action_type" validate:"required,max=30"`
	LocationName string     `json:"location_name,omitempty" db:"location_name"`
	PhotoURL     string     `json:"photo_url,omitempty" db:"photo_url"`
	Points       int        `json:"points" db:"points"`
	Status       string     `json:"status" db:"status"`
	ReviewedBy   *int64     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	// Joined fields
	Username string `json:"username,omitempty" db:"-"`
}

// IsOwnedBy checks ownership
func (a *EcoAction) IsOwnedBy(userID int64) bool {
	return a.UserID == userID
}

// IsPending reports whether the action still awaits moderation
func (a *EcoAction) IsPending() bool {
	return a.Status == ActionStatusPending
}
