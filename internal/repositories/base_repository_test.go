// file: internal/repositories/base_repository_test.go
package repositories

import (
	"testing"
	"time"

	"ecotrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

	cursor, err := DecodeCursor(EncodeCursor(createdAt, 42))
	require.NoError(t, err)

	assert.True(t, cursor.CreatedAt.Equal(createdAt))
	assert.Equal(t, int64(42), cursor.ID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	cases := []string{
		"not-base64!!!",
		"aGVsbG8=",                // decodes but has no separator
		"Z2FyYmFnZXwxMjM=",        // decodes to "garbage|123", bad timestamp
		EncodeCursor(time.Now(), 0), // non-positive id
	}

	for _, cursor := range cases {
		_, err := DecodeCursor(cursor)
		assert.ErrorIs(t, err, ErrBadCursor, "cursor %q should be rejected", cursor)
	}
}

func TestBuildKeysetPageDefaults(t *testing.T) {
	repo := NewBaseRepository(nil, zap.NewNop())

	page, err := repo.BuildKeysetPage(models.PaginationParams{}, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultPageSize, page.Limit)
	assert.Empty(t, page.Where)
	assert.Empty(t, page.Args)
}

func TestBuildKeysetPageClampsLimit(t *testing.T) {
	repo := NewBaseRepository(nil, zap.NewNop())

	page, err := repo.BuildKeysetPage(models.PaginationParams{Limit: 10000}, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Limit)
}

func TestBuildKeysetPageWithCursor(t *testing.T) {
	repo := NewBaseRepository(nil, zap.NewNop())
	cursor := EncodeCursor(time.Now(), 7)

	page, err := repo.BuildKeysetPage(models.PaginationParams{Cursor: cursor, Limit: 5}, 2)
	require.NoError(t, err)

	// Placeholders continue after the caller's existing args
	assert.Equal(t, "(created_at, id) < ($3, $4)", page.Where)
	assert.Len(t, page.Args, 2)
	assert.Equal(t, 5, page.Limit)
}

func TestBuildKeysetPageBadCursor(t *testing.T) {
	repo := NewBaseRepository(nil, zap.NewNop())

	_, err := repo.BuildKeysetPage(models.PaginationParams{Cursor: "???"}, 0)
	assert.ErrorIs(t, err, ErrBadCursor)
}

func TestPageMeta(t *testing.T) {
	repo := NewBaseRepository(nil, zap.NewNop())
	last := time.Now()

	meta := repo.PageMeta(20, true, last, 99)
	assert.True(t, meta.HasMore)
	assert.Equal(t, 20, meta.PerPage)

	cursor, err := DecodeCursor(meta.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cursor.ID)

	final := repo.PageMeta(20, false, time.Time{}, 0)
	assert.False(t, final.HasMore)
	assert.Empty(t, final.NextCursor)
}
