// Package habits tracks daily practice habits in the document store:
// one record per day, a weekly summary, and a consecutive-day streak.
package habits

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ksmolina/lexibot/internal/store"
)

const (
	kindHabit = "habit"

	fieldDate     = "date"
	fieldListened = "listened"
	fieldSpoke    = "spoke"
	fieldVideo    = "video"
	fieldTasks    = "tasks" // JSON array of completed task ids
)

// Entry is one day's habit record.
type Entry struct {
	ID             string
	Date           string
	Listened       bool
	Spoke          bool
	Video          string
	CompletedTasks []string
}

func entryFromDocument(doc store.Document) Entry {
	entry := Entry{
		ID:       doc.ID,
		Date:     doc.StringField(fieldDate),
		Listened: doc.BoolField(fieldListened),
		Spoke:    doc.BoolField(fieldSpoke),
		Video:    doc.StringField(fieldVideo),
	}
	// The completed-task list is a JSON string inside a text field;
	// garbage decodes to an empty list rather than failing the read.
	if raw := doc.StringField(fieldTasks); raw != "" {
		if err := json.Unmarshal([]byte(raw), &entry.CompletedTasks); err != nil {
			entry.CompletedTasks = nil
		}
	}
	return entry
}

// Tracker persists habit entries.
type Tracker struct {
	client     *store.Client
	collection string
	logger     *slog.Logger
	now        func() time.Time
}

func NewTracker(client *store.Client, collection string) *Tracker {
	return &Tracker{
		client:     client,
		collection: collection,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// GetOrCreateToday returns today's habit entry, creating an empty one
// on first access. Running it twice on the same day yields the same
// record.
func (t *Tracker) GetOrCreateToday(ctx context.Context) (Entry, error) {
	today := t.now().Format("2006-01-02")

	docs, err := t.client.QueryAll(ctx, t.collection, &store.Filter{Field: fieldDate, Equals: today})
	if err != nil {
		return Entry{}, fmt.Errorf("query habit entry for %s: %w", today, err)
	}
	for _, doc := range docs {
		if doc.StringField(store.FieldKind) == kindHabit {
			return entryFromDocument(doc), nil
		}
	}

	doc, err := t.client.Create(ctx, t.collection, map[string]any{
		store.FieldKind: kindHabit,
		fieldDate:       today,
		fieldTasks:      "[]",
	})
	if err != nil {
		return Entry{}, fmt.Errorf("create habit entry for %s: %w", today, err)
	}
	t.logger.Info("created habit entry", "date", today)
	return entryFromDocument(doc), nil
}

// MarkListened records the listening habit for today.
func (t *Tracker) MarkListened(ctx context.Context, done bool) error {
	return t.markField(ctx, fieldListened, done)
}

// MarkSpoke records the speaking habit for today.
func (t *Tracker) MarkSpoke(ctx context.Context, done bool) error {
	return t.markField(ctx, fieldSpoke, done)
}

func (t *Tracker) markField(ctx context.Context, field string, done bool) error {
	entry, err := t.GetOrCreateToday(ctx)
	if err != nil {
		return err
	}
	if err := t.client.Patch(ctx, entry.ID, map[string]any{field: done}); err != nil {
		return fmt.Errorf("mark %s=%t: %w", field, done, err)
	}
	return nil
}

// SetVideo records a watched video on today's entry.
func (t *Tracker) SetVideo(ctx context.Context, url string) error {
	entry, err := t.GetOrCreateToday(ctx)
	if err != nil {
		return err
	}
	if err := t.client.Patch(ctx, entry.ID, map[string]any{fieldVideo: url}); err != nil {
		return fmt.Errorf("set video: %w", err)
	}
	return nil
}

// MarkTaskDone adds a task id to today's completed list.
func (t *Tracker) MarkTaskDone(ctx context.Context, taskID string) error {
	entry, err := t.GetOrCreateToday(ctx)
	if err != nil {
		return err
	}
	for _, id := range entry.CompletedTasks {
		if id == taskID {
			return nil
		}
	}
	completed := append(entry.CompletedTasks, taskID)
	payload, err := json.Marshal(completed)
	if err != nil {
		return fmt.Errorf("encode completed tasks: %w", err)
	}
	if err := t.client.Patch(ctx, entry.ID, map[string]any{fieldTasks: string(payload)}); err != nil {
		return fmt.Errorf("mark task %s done: %w", taskID, err)
	}
	return nil
}

// WeeklyStats summarizes the last seven days.
type WeeklyStats struct {
	ListeningDays int
	SpeakingDays  int
	VideosWatched int
	Streak        int
	TotalDays     int
}

// Weekly computes stats over the last seven days including today. The
// streak counts consecutive days, ending today, on which both habits
// were done.
func (t *Tracker) Weekly(ctx context.Context) (WeeklyStats, error) {
	today := t.now()
	start := today.AddDate(0, 0, -6)

	docs, err := t.client.QueryAll(ctx, t.collection, &store.Filter{Field: store.FieldKind, Equals: kindHabit})
	if err != nil {
		return WeeklyStats{}, fmt.Errorf("query habit entries: %w", err)
	}

	byDate := make(map[string]Entry)
	stats := WeeklyStats{TotalDays: 7}
	for _, doc := range docs {
		entry := entryFromDocument(doc)
		date := store.ParseDate(entry.Date)
		if date.IsZero() || date.Malformed() {
			continue
		}
		day := date.Time
		if day.Before(truncateDay(start)) || day.After(truncateDay(today)) {
			continue
		}
		byDate[entry.Date] = entry
		if entry.Listened {
			stats.ListeningDays++
		}
		if entry.Spoke {
			stats.SpeakingDays++
		}
		if entry.Video != "" {
			stats.VideosWatched++
		}
	}

	check := today
	for i := 0; i < 7; i++ {
		entry, ok := byDate[check.Format("2006-01-02")]
		if !ok || !entry.Listened || !entry.Spoke {
			break
		}
		stats.Streak++
		check = check.AddDate(0, 0, -1)
	}

	return stats, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
