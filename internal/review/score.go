// Package review implements the spaced-repetition core: the priority
// scorer that ranks vocabulary items, the batch selector, and the state
// machine that turns an Again/Good/Easy answer into new review state.
package review

import (
	"time"

	"github.com/ksmolina/lexibot/internal/store"
)

// Scoring weights. The due term dominates so overdue items always beat
// the repetition and recency terms combined.
const (
	dueBaseScore       = 150.0
	overduePerDay      = 5.0
	upcomingBase       = 30.0
	upcomingDecay      = 3.0
	legacyPerDay       = 2.0
	legacyCap          = 50.0
	malformedDateScore = 50.0

	repetitionBase  = 30.0
	repetitionDecay = 3.0

	recentWeekBonus  = 20.0
	recentMonthBonus = 10.0
)

// Score computes the review urgency of one item for the given day.
// Higher is more urgent. It is a pure function and never fails: bad
// stored data degrades to moderate defaults instead of dropping the
// item from rotation.
func Score(item store.Item, today time.Time) float64 {
	today = dateOnly(today)
	score := dueTerm(item, today)

	// Well-known items drift down as their review count grows.
	score += max(0, repetitionBase-repetitionDecay*float64(item.ReviewCount))

	// Freshly added vocabulary gets a nudge so it enters rotation early.
	if !item.DateAdded.IsZero() && !item.DateAdded.Malformed() {
		age := daysBetween(dateOnly(item.DateAdded.Time), today)
		switch {
		case age >= 0 && age <= 7:
			score += recentWeekBonus
		case age > 7 && age <= 30:
			score += recentMonthBonus
		}
	}

	return score
}

func dueTerm(item store.Item, today time.Time) float64 {
	switch {
	case item.NextReview.Malformed():
		// A date we cannot parse must not make the item vanish.
		return malformedDateScore

	case !item.NextReview.IsZero():
		next := dateOnly(item.NextReview.Time)
		if !next.After(today) {
			// Due today scores exactly the base; each day overdue adds
			// more, uncapped.
			return dueBaseScore + overduePerDay*float64(daysBetween(next, today))
		}
		// Upcoming reviews ramp up as the due date approaches, reaching
		// zero at ten days out.
		return max(0, upcomingBase-upcomingDecay*float64(daysBetween(today, next)))

	case item.LastReviewed.IsZero() || item.LastReviewed.Malformed():
		// Brand-new item: same weight as a review due today, so new
		// vocabulary interleaves with due reviews instead of being
		// starved or flooding the queue.
		return dueBaseScore

	default:
		// Reviewed at least once but never answered, so no next_review
		// was recorded. Grow urgency slowly with elapsed time.
		since := daysBetween(dateOnly(item.LastReviewed.Time), today)
		return min(legacyPerDay*float64(since), legacyCap)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b; negative when b is
// before a. Both arguments must already be date-only values.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
