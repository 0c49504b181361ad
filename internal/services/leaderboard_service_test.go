// file: internal/services/leaderboard_service_test.go
package services

import (
	"testing"
	"time"

	"ecotrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodStart(t *testing.T) {
	assert.Nil(t, periodStart(models.PeriodAll))
	assert.Nil(t, periodStart(""))

	week := periodStart(models.PeriodWeek)
	require.NotNil(t, week)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), *week, time.Minute)

	month := periodStart(models.PeriodMonth)
	require.NotNil(t, month)
	assert.WithinDuration(t, time.Now().AddDate(0, -1, 0), *month, time.Minute)

	year := periodStart(models.PeriodYear)
	require.NotNil(t, year)
	assert.WithinDuration(t, time.Now().AddDate(-1, 0, 0), *year, time.Minute)
}

func TestCategoryFilter(t *testing.T) {
	assert.Equal(t, "", categoryFilter(models.CategoryOverall))
	assert.Equal(t, "tree", categoryFilter("tree"))
}
