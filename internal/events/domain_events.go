package events

import "time"

// ===============================
// USER EVENTS
// ===============================

type UserRegisteredEvent struct {
	BaseEvent
	Email    string `json:"email"`
	Username string `json:"username"`
}

// NewUserRegisteredEvent creates a user.registered event
func NewUserRegisteredEvent(userID int64, email, username string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "user.registered",
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		Email:    email,
		Username: username,
	}
}

type UserLoggedInEvent struct {
	BaseEvent
	LoginAt   time.Time `json:"login_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// NewUserLoggedInEvent creates a user.logged_in event
func NewUserLoggedInEvent(userID int64, ipAddress, userAgent string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "user.logged_in",
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		LoginAt:   time.Now(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

type UserLoggedOutEvent struct {
	BaseEvent
	LogoutAt time.Time `json:"logout_at"`
	AllDevices bool    `json:"all_devices"`
}

// NewUserLoggedOutEvent creates a user.logged_out event
func NewUserLoggedOutEvent(userID int64, allDevices bool) *UserLoggedOutEvent {
	return &UserLoggedOutEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "user.logged_out",
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		LogoutAt:   time.Now(),
		AllDevices: allDevices,
	}
}

type PasswordChangedEvent struct {
	BaseEvent
	ChangedAt time.Time `json:"changed_at"`
}

// NewPasswordChangedEvent creates a user.password_changed event
func NewPasswordChangedEvent(userID int64) *PasswordChangedEvent {
	return &PasswordChangedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "user.password_changed",
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		ChangedAt: time.Now(),
	}
}

type UserModeratedEvent struct {
	BaseEvent
	TargetUserID int64  `json:"target_user_id"`
	Action       string `json:"action"`
}

// NewUserModeratedEvent creates a user.moderated event. Action is one of
// "promoted", "demoted", "activated", "deactivated".
func NewUserModeratedEvent(adminID, targetUserID int64, action string) *UserModeratedEvent {
	return &UserModeratedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "user.moderated",
			Timestamp: time.Now(),
			UserID:    &adminID,
		},
		TargetUserID: targetUserID,
		Action:       action,
	}
}

// ===============================
// ACTION EVENTS
// ===============================

type ActionSubmittedEvent struct {
	BaseEvent
	ActionID   int64  `json:"action_id"`
	ActionType string `json:"action_type"`
	Status     string `json:"status"`
}

// NewActionSubmittedEvent creates an action.submitted event
func NewActionSubmittedEvent(userID, actionID int64, actionType, status string) *ActionSubmittedEvent {
	return &ActionSubmittedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "action.submitted",
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		ActionID:   actionID,
		ActionType: actionType,
		Status:     status,
	}
}

type ActionModeratedEvent struct {
	BaseEvent
	ActionID int64  `json:"action_id"`
	OwnerID  int64  `json:"owner_id"`
	Status   string `json:"status"`
	Points   int    `json:"points"`
}

// NewActionModeratedEvent creates an action.approved or action.rejected event
func NewActionModeratedEvent(reviewerID, ownerID, actionID int64, status string, points int) *ActionModeratedEvent {
	return &ActionModeratedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "action." + status,
			Timestamp: time.Now(),
			UserID:    &reviewerID,
		},
		ActionID: actionID,
		OwnerID:  ownerID,
		Status:   status,
		Points:   points,
	}
}

// ===============================
// BADGE EVENTS
// ===============================

type BadgeAwardedEvent struct {
	BaseEvent
	BadgeID   int64  `json:"badge_id"`
	BadgeName string `json:"badge_name"`
}

// NewBadgeAwardedEvent creates a badge.awarded event
func NewBadgeAwardedEvent(userID, badgeID int64, badgeName string) *BadgeAwardedEvent {
	return &BadgeAwardedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "badge.awarded",
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		BadgeID:   badgeID,
		BadgeName: badgeName,
	}
}

// ===============================
// LOCATION EVENTS
// ===============================

type LocationSuggestedEvent struct {
	BaseEvent
	LocationID   int64  `json:"location_id"`
	LocationType string `json:"location_type"`
}

// NewLocationSuggestedEvent creates a location.suggested event
func NewLocationSuggestedEvent(userID, locationID int64, locationType string) *LocationSuggestedEvent {
	return &LocationSuggestedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "location.suggested",
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		LocationID:   locationID,
		LocationType: locationType,
	}
}

type LocationApprovedEvent struct {
	BaseEvent
	LocationID int64 `json:"location_id"`
}

// NewLocationApprovedEvent creates a location.approved event
func NewLocationApprovedEvent(adminID, locationID int64) *LocationApprovedEvent {
	return &LocationApprovedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "location.approved",
			Timestamp: time.Now(),
			UserID:    &adminID,
		},
		LocationID: locationID,
	}
}
