package models

// Leaderboard periods
const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// CategoryOverall aggregates every action type
const CategoryOverall = "overall"

// ValidatePeriod validates the leaderboard period enum
func ValidatePeriod(period string) bool {
	switch period {
	case PeriodAll, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// LeaderboardEntry is one ranked row. Rank is the 1-based position in the
// total order (points desc, action count desc, user id asc); ties still get
// consecutive numbers.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Username    string `json:"username" db:"username"`
	Points      int    `json:"points" db:"points"`
	ActionCount int    `json:"action_count" db:"action_count"`
}

// AssignRanks numbers entries already sorted by
// (points desc, action count desc, user id asc).
func AssignRanks(entries []LeaderboardEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// PlatformStats aggregates public platform counters
type PlatformStats struct {
	TotalUsers          int            `json:"total_users"`
	TotalApprovedActions int           `json:"total_approved_actions"`
	ActionsByType       map[string]int `json:"actions_by_type"`
	TotalPointsAwarded  int            `json:"total_points_awarded"`
	LocationsByType     map[string]int `json:"locations_by_type"`
	BadgesAwarded       int            `json:"badges_awarded"`
}
