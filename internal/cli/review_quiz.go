package cli

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/ksmolina/lexibot/internal/bot"
	"github.com/ksmolina/lexibot/internal/review"
	"github.com/ksmolina/lexibot/internal/store"
)

// ReviewQuizCLI manages an interactive terminal review session over the
// most urgent vocabulary items.
type ReviewQuizCLI struct {
	*InteractiveCLI
	updater ReviewUpdater
	items   []store.Item
	total   int
	now     func() time.Time
}

// ReviewUpdater persists one item's review state.
type ReviewUpdater interface {
	UpdateReviewState(ctx context.Context, itemID string, lastReviewed, nextReview time.Time, reviewCount int) error
}

// NewReviewQuizCLI selects the session batch up front; the session then
// walks through it one item at a time.
func NewReviewQuizCLI(ctx context.Context, source bot.ItemSource, updater ReviewUpdater, batchSize int) *ReviewQuizCLI {
	now := time.Now
	pool := source.FetchAll(ctx)
	batch := review.SelectBatch(pool, now(), batchSize, rand.New(rand.NewSource(now().UnixNano())))
	return &ReviewQuizCLI{
		InteractiveCLI: newInteractiveCLI(),
		updater:        updater,
		items:          batch,
		total:          len(batch),
		now:            now,
	}
}

func (r *ReviewQuizCLI) getNextItem() *store.Item {
	if len(r.items) == 0 {
		return nil
	}
	return &r.items[0]
}

func (r *ReviewQuizCLI) removeCurrentItem() {
	if len(r.items) > 0 {
		r.items = r.items[1:]
	}
}

// ItemCount returns the number of remaining items in the session.
func (r *ReviewQuizCLI) ItemCount() int {
	return len(r.items)
}

func (r *ReviewQuizCLI) Session(ctx context.Context) error {
	item := r.getNextItem()
	if item == nil {
		if r.total == 0 {
			fmt.Fprintln(r.stdoutWriter, "No vocabulary entries found to review.")
		} else {
			fmt.Fprintln(r.stdoutWriter, "Session complete!")
		}
		return errEnd
	}

	index := r.total - len(r.items) + 1
	fmt.Fprintf(r.stdoutWriter, "\n[%d/%d] ", index, r.total)
	_, _ = r.bold.Fprintln(r.stdoutWriter, item.Title)
	if item.Meaning != "" {
		fmt.Fprintln(r.stdoutWriter, item.Meaning)
	}
	if item.Explanation != "" {
		_, _ = r.italic.Fprintln(r.stdoutWriter, item.Explanation)
	}
	if item.Example != "" {
		fmt.Fprintf(r.stdoutWriter, "Example: %s\n", item.Example)
	}

	fmt.Fprint(r.stdoutWriter, "(a)gain / (g)ood / (e)asy / (s)kip / (q)uit: ")
	input, err := r.stdinReader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	resp, action := parseAnswer(input)
	switch action {
	case actionQuit:
		fmt.Fprintln(r.stdoutWriter, "Ending session.")
		return errEnd
	case actionSkip:
		r.removeCurrentItem()
		return nil
	case actionUnknown:
		fmt.Fprintln(r.stdoutWriter, "Please answer with a, g, e, s or q.")
		return nil
	}

	state := review.Apply(resp, item.ReviewCount, r.now())
	if err := r.updater.UpdateReviewState(ctx, item.ID, state.LastReviewed, state.NextReview, state.ReviewCount); err != nil {
		fmt.Fprintf(r.stdoutWriter, "Could not record your answer for %q, it will come back in the next batch.\n", item.Title)
		r.removeCurrentItem()
		return nil
	}

	fmt.Fprintf(r.stdoutWriter, "Next review on %s\n", state.NextReview.Format("2006-01-02"))
	r.removeCurrentItem()
	return nil
}

type answerAction int

const (
	actionAnswer answerAction = iota
	actionSkip
	actionQuit
	actionUnknown
)

func parseAnswer(input string) (review.Response, answerAction) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "a", "again":
		return review.ResponseAgain, actionAnswer
	case "g", "good":
		return review.ResponseGood, actionAnswer
	case "e", "easy":
		return review.ResponseEasy, actionAnswer
	case "s", "skip":
		return 0, actionSkip
	case "q", "quit", "exit":
		return 0, actionQuit
	default:
		return 0, actionUnknown
	}
}
