package datasync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksmolina/lexibot/internal/store"
)

func TestToRow(t *testing.T) {
	syncedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	item := store.Item{
		ID:           "item-1",
		Collection:   "vocab",
		Title:        "serendipity",
		Meaning:      "a happy accident",
		Explanation:  "finding something good without looking for it",
		Example:      "Meeting her was pure serendipity.",
		Category:     "Word",
		ReviewCount:  4,
		Mastered:     true,
		LastReviewed: store.ParseDate("2024-05-20"),
		NextReview:   store.ParseDate("2024-06-05"),
		DateAdded:    store.ParseDate("2024-01-15"),
	}

	row := toRow(item, syncedAt)

	assert.Equal(t, "item-1", row.ItemID)
	assert.Equal(t, "vocab", row.Collection)
	assert.Equal(t, "serendipity", row.Title)
	assert.Equal(t, "a happy accident", row.Meaning)
	assert.Equal(t, "Word", row.Category)
	assert.Equal(t, 4, row.ReviewCount)
	assert.True(t, row.Mastered)
	assert.Equal(t, syncedAt, row.SyncedAt)

	require.NotNil(t, row.LastReviewed)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), *row.LastReviewed)
	require.NotNil(t, row.NextReview)
	assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), *row.NextReview)
	require.NotNil(t, row.DateAdded)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *row.DateAdded)
}

func TestDateOrNil(t *testing.T) {
	tests := []struct {
		name     string
		date     store.Date
		expected *time.Time
	}{
		{
			name:     "Absent date is NULL",
			date:     store.Date{},
			expected: nil,
		},
		{
			name:     "Malformed date is NULL",
			date:     store.ParseDate("not-a-date"),
			expected: nil,
		},
		{
			name: "Valid date keeps its day",
			date: store.ParseDate("2024-06-05"),
			expected: func() *time.Time {
				d := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
				return &d
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := dateOrNil(tc.date)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.expected, *got)
		})
	}
}
