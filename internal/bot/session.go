// Package bot wires the review core to a chat Messenger: it selects a
// batch, presents each item with response controls, and applies answers
// through the state machine back to the store.
package bot

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ksmolina/lexibot/internal/chat"
	"github.com/ksmolina/lexibot/internal/review"
	"github.com/ksmolina/lexibot/internal/store"
)

//go:generate mockgen -source=session.go -destination=../mocks/bot/mock_stores.go -package=mock_bot

// ItemSource provides the full review pool. A failed fetch yields an
// empty pool, never an error.
type ItemSource interface {
	FetchAll(ctx context.Context) []store.Item
}

// ReviewUpdater persists the review state of one item.
type ReviewUpdater interface {
	UpdateReviewState(ctx context.Context, itemID string, lastReviewed, nextReview time.Time, reviewCount int) error
}

// Session is one delivered batch. It is a plain value passed through
// the call chain, not process-wide state, so independent sessions (and
// tests) never share anything. It is not persisted: an unanswered item
// simply keeps its stored state and resurfaces with elevated priority
// in the next batch.
type Session struct {
	ID        string
	StartedAt time.Time
	Items     []store.Item

	messageIDs map[string]string // item id -> message id
	answered   map[string]bool
}

// Item returns the session item with the given id.
func (s *Session) Item(itemID string) (store.Item, bool) {
	for _, item := range s.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return store.Item{}, false
}

// Answered reports whether the item already received a response in
// this session.
func (s *Session) Answered(itemID string) bool {
	return s.answered[itemID]
}

// Remaining counts the items still waiting for a response.
func (s *Session) Remaining() int {
	count := 0
	for _, item := range s.Items {
		if !s.answered[item.ID] {
			count++
		}
	}
	return count
}

// Orchestrator sequences batch selection, presentation, and response
// handling. It owns no persistent state of its own.
type Orchestrator struct {
	source    ItemSource
	updater   ReviewUpdater
	messenger chat.Messenger
	batchSize int

	now func() time.Time
	rng *rand.Rand
}

// NewOrchestrator creates an orchestrator delivering batches of
// batchSize items through messenger.
func NewOrchestrator(source ItemSource, updater ReviewUpdater, messenger chat.Messenger, batchSize int) *Orchestrator {
	return &Orchestrator{
		source:    source,
		updater:   updater,
		messenger: messenger,
		batchSize: batchSize,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock overrides the time source, for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// WithRand overrides the tie-break randomness, for tests.
func (o *Orchestrator) WithRand(rng *rand.Rand) *Orchestrator {
	o.rng = rng
	return o
}

// StartSession selects the most urgent items and presents each one with
// Again/Good/Easy controls. An empty pool produces a "nothing to
// review" notification and a session with no items.
func (o *Orchestrator) StartSession(ctx context.Context) (*Session, error) {
	today := o.now()
	pool := o.source.FetchAll(ctx)
	batch := review.SelectBatch(pool, today, o.batchSize, o.rng)

	session := &Session{
		ID:         uuid.NewString(),
		StartedAt:  today,
		Items:      batch,
		messageIDs: make(map[string]string, len(batch)),
		answered:   make(map[string]bool, len(batch)),
	}

	if len(batch) == 0 {
		if err := o.messenger.Notify(ctx, "No vocabulary entries found to review."); err != nil {
			return nil, fmt.Errorf("notify empty pool: %w", err)
		}
		return session, nil
	}

	for i, item := range batch {
		text := FormatItem(item, i+1, len(batch))
		messageID, err := o.messenger.SendMessage(ctx, text, chat.ResponseButtons(item.ID))
		if err != nil {
			return nil, fmt.Errorf("send item %s: %w", item.ID, err)
		}
		session.messageIDs[item.ID] = messageID
	}
	return session, nil
}

// HandleResponse applies one pressed button to its item: parse the
// token, run the state machine, persist, then remove the controls. If
// the store update fails after retries the user is told and the stored
// state stays untouched, so the item keeps its urgency next cycle — a
// review event is never lost silently.
func (o *Orchestrator) HandleResponse(ctx context.Context, session *Session, token string) error {
	resp, itemID, err := chat.ParseToken(token)
	if err != nil {
		return err
	}
	item, ok := session.Item(itemID)
	if !ok {
		return fmt.Errorf("item %s is not part of session %s", itemID, session.ID)
	}
	if session.Answered(itemID) {
		return nil
	}

	state := review.Apply(resp, item.ReviewCount, o.now())
	if err := o.updater.UpdateReviewState(ctx, itemID, state.LastReviewed, state.NextReview, state.ReviewCount); err != nil {
		if notifyErr := o.messenger.Notify(ctx, fmt.Sprintf("Could not record your answer for %q, it will come back in the next batch.", item.Title)); notifyErr != nil {
			return fmt.Errorf("update failed (%v), notify failed: %w", err, notifyErr)
		}
		return fmt.Errorf("record response for item %s: %w", itemID, err)
	}

	session.answered[itemID] = true
	if messageID, ok := session.messageIDs[itemID]; ok {
		if err := o.messenger.RemoveButtons(ctx, messageID); err != nil {
			return fmt.Errorf("remove buttons for item %s: %w", itemID, err)
		}
	}
	return nil
}

// FormatItem renders one item for presentation. The status line
// distinguishes items never reviewed before from ones reset by "Again":
// only a missing last_reviewed counts as new.
func FormatItem(item store.Item, index, total int) string {
	var status string
	switch {
	case item.LastReviewed.IsZero():
		status = "🆕 New"
	case item.ReviewCount <= 3:
		status = fmt.Sprintf("📖 Review #%d", item.ReviewCount+1)
	default:
		status = fmt.Sprintf("✅ Review #%d", item.ReviewCount+1)
	}

	text := fmt.Sprintf("Review %d/%d  •  %s\n\n%s", index, total, status, item.Title)
	if item.Meaning != "" {
		text += "\n" + item.Meaning
	}
	if item.Explanation != "" {
		text += "\n\nExplanation:\n" + item.Explanation
	}
	if item.Example != "" {
		text += "\n\nExample:\n" + item.Example
	}
	if item.Category != "" {
		text += "\n\nCategory: " + item.Category
	}
	return text
}
