// file: internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPointsForAction(t *testing.T) {
	assert.Equal(t, 15, PointsForAction(ActionTypeTree))
	assert.Equal(t, 10, PointsForAction(ActionTypeClean))
	assert.Equal(t, 5, PointsForAction(ActionTypeBike))
	assert.Equal(t, 8, PointsForAction(ActionTypeRecycle))
	assert.Equal(t, 3, PointsForAction(ActionTypeEducation))

	// Unknown types score at the default rather than failing
	assert.Equal(t, DefaultActionPoints, PointsForAction("composting"))
	assert.Equal(t, DefaultActionPoints, PointsForAction(""))
}

func TestBadgeMetBy(t *testing.T) {
	pointsBadge := &Badge{RequirementType: BadgeRequirementPoints, RequirementValue: 100}
	assert.False(t, pointsBadge.MetBy(99, 50))
	assert.True(t, pointsBadge.MetBy(100, 0))
	assert.True(t, pointsBadge.MetBy(250, 0))

	actionsBadge := &Badge{RequirementType: BadgeRequirementActions, RequirementValue: 10}
	assert.False(t, actionsBadge.MetBy(1000, 9))
	assert.True(t, actionsBadge.MetBy(0, 10))

	unknown := &Badge{RequirementType: "streak", RequirementValue: 1}
	assert.False(t, unknown.MetBy(1000, 1000), "unknown requirement types never match")
}

func TestAssignRanks(t *testing.T) {
	entries := []LeaderboardEntry{
		{UserID: 1, Points: 100, ActionCount: 10},
		{UserID: 2, Points: 100, ActionCount: 10},
		{UserID: 3, Points: 100, ActionCount: 8},
		{UserID: 4, Points: 50, ActionCount: 5},
	}

	AssignRanks(entries)

	// Ranks are positional, so tied scores still get consecutive numbers
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, 4, entries[3].Rank)
}

func TestAssignRanksEmpty(t *testing.T) {
	var entries []LeaderboardEntry
	AssignRanks(entries)
	assert.Empty(t, entries)
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleRegular}).IsAdmin())
}

func TestValidateEnums(t *testing.T) {
	assert.True(t, ValidateUserRole(RoleRegular))
	assert.True(t, ValidateUserRole(RoleAdmin))
	assert.False(t, ValidateUserRole("superuser"))

	assert.True(t, ValidateActionStatus(ActionStatusPending))
	assert.True(t, ValidateActionStatus(ActionStatusApproved))
	assert.True(t, ValidateActionStatus(ActionStatusRejected))
	assert.False(t, ValidateActionStatus("archived"))

	assert.True(t, ValidatePeriod(PeriodAll))
	assert.True(t, ValidatePeriod(PeriodWeek))
	assert.False(t, ValidatePeriod("decade"))

	assert.True(t, ValidateLocationType("park"))
	assert.False(t, ValidateLocationType("mall"))
}

func TestSessionIsExpired(t *testing.T) {
	live := &Session{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, live.IsExpired())

	dead := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, dead.IsExpired())
}

func TestActionOwnership(t *testing.T) {
	action := &EcoAction{UserID: 7, Status: ActionStatusPending}
	assert.True(t, action.IsOwnedBy(7))
	assert.False(t, action.IsOwnedBy(8))
	assert.True(t, action.IsPending())

	action.Status = ActionStatusApproved
	assert.False(t, action.IsPending())
}
