package review

import (
	"time"

	"github.com/ksmolina/lexibot/internal/store"
)

// Stats summarizes the review pool for the /due display.
type Stats struct {
	Overdue  int
	DueToday int
	New      int
	Mastered int
	Total    int
}

// ComputeStats counts the pool by review status. "New" means never
// reviewed at all, which is different from review_count == 0: a count of
// zero also happens after an "Again" reset.
func ComputeStats(items []store.Item, today time.Time) Stats {
	today = dateOnly(today)
	stats := Stats{Total: len(items)}
	for _, item := range items {
		switch {
		case item.Mastered:
			stats.Mastered++
		case item.LastReviewed.IsZero():
			stats.New++
		case item.NextReview.IsZero() || item.NextReview.Malformed():
			// Reviewed but without a usable due date; not counted as due.
		case dateOnly(item.NextReview.Time).Before(today):
			stats.Overdue++
		case dateOnly(item.NextReview.Time).Equal(today):
			stats.DueToday++
		}
	}
	return stats
}
