package review

import (
	"fmt"
	"time"
)

// Response is the user's answer to one presented item. It is a closed
// set: the chat boundary parses callback tokens into a Response exactly
// once, and everything downstream matches exhaustively.
type Response int

const (
	ResponseAgain Response = iota
	ResponseGood
	ResponseEasy
)

func (r Response) String() string {
	switch r {
	case ResponseAgain:
		return "again"
	case ResponseGood:
		return "good"
	case ResponseEasy:
		return "easy"
	}
	return fmt.Sprintf("Response(%d)", int(r))
}

// Interval ceilings in days.
const (
	goodIntervalCeiling = 60
	easyIntervalCeiling = 90
)

// ReviewState is the slice of an item the state machine owns.
type ReviewState struct {
	ReviewCount  int
	LastReviewed time.Time
	NextReview   time.Time
}

// Apply computes the new review state for an item with the given review
// count when the user answers with resp on the given day:
//
//	Again: due tomorrow, count reset to zero — a hard restart.
//	Good:  due in min(2^count, 60) days, count+1. A first "Good" lands
//	       tomorrow; each further one doubles the interval.
//	Easy:  due in min(2^(count+1), 90) days, count+2, so future
//	       intervals compound faster.
//
// LastReviewed is always set to today. The policy is uniform across the
// whole item population; nothing is configurable per item.
func Apply(resp Response, reviewCount int, today time.Time) ReviewState {
	today = dateOnly(today)
	if reviewCount < 0 {
		reviewCount = 0
	}

	var state ReviewState
	switch resp {
	case ResponseAgain:
		state = ReviewState{
			ReviewCount: 0,
			NextReview:  today.AddDate(0, 0, 1),
		}
	case ResponseGood:
		state = ReviewState{
			ReviewCount: reviewCount + 1,
			NextReview:  today.AddDate(0, 0, intervalDays(reviewCount, goodIntervalCeiling)),
		}
	case ResponseEasy:
		state = ReviewState{
			ReviewCount: reviewCount + 2,
			NextReview:  today.AddDate(0, 0, intervalDays(reviewCount+1, easyIntervalCeiling)),
		}
	}
	state.LastReviewed = today
	return state
}

// intervalDays returns min(2^exponent, ceiling) without overflowing for
// large review counts.
func intervalDays(exponent, ceiling int) int {
	if exponent < 0 {
		exponent = 0
	}
	// 2^7 already exceeds both ceilings.
	if exponent >= 7 {
		return ceiling
	}
	days := 1 << uint(exponent)
	if days > ceiling {
		return ceiling
	}
	return days
}
