package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ksmolina/lexibot/internal/store"
)

// Reminder field names in stored documents.
const (
	KindReminder = "reminder"

	fieldTask      = "task"
	fieldDate      = "date"
	fieldStartTime = "start_time"
	fieldEndTime   = "end_time"
	fieldPriority  = "priority"
	fieldCategory  = "category"
	fieldBlockName = "block_name"
)

// Reminder is one stored task/time-block record.
type Reminder struct {
	ID        string
	Task      string
	Date      string
	StartTime string
	EndTime   string
	Priority  string
	Category  string
	BlockName string
}

func reminderFromDocument(doc store.Document) Reminder {
	return Reminder{
		ID:        doc.ID,
		Task:      doc.StringField(fieldTask),
		Date:      doc.StringField(fieldDate),
		StartTime: doc.StringField(fieldStartTime),
		EndTime:   doc.StringField(fieldEndTime),
		Priority:  doc.StringField(fieldPriority),
		Category:  doc.StringField(fieldCategory),
		BlockName: doc.StringField(fieldBlockName),
	}
}

// Repository persists reminders in the document store.
type Repository struct {
	client     *store.Client
	collection string
	logger     *slog.Logger
}

func NewRepository(client *store.Client, collection string) *Repository {
	return &Repository{
		client:     client,
		collection: collection,
		logger:     slog.Default(),
	}
}

// Create stores a parsed task as a reminder.
func (r *Repository) Create(ctx context.Context, task ParsedTask) (Reminder, error) {
	fields := map[string]any{
		store.FieldKind: KindReminder,
		fieldTask:       task.Task,
		fieldPriority:   task.Priority,
		fieldCategory:   task.Category,
	}
	if task.Date != "" {
		fields[fieldDate] = task.Date
	}
	if task.StartTime != "" {
		fields[fieldStartTime] = task.StartTime
	}
	if task.EndTime != "" {
		fields[fieldEndTime] = task.EndTime
	}

	doc, err := r.client.Create(ctx, r.collection, fields)
	if err != nil {
		return Reminder{}, fmt.Errorf("create reminder: %w", err)
	}
	return reminderFromDocument(doc), nil
}

// ListForDate returns all reminders scheduled on a YYYY-MM-DD date.
func (r *Repository) ListForDate(ctx context.Context, date string) ([]Reminder, error) {
	docs, err := r.client.QueryAll(ctx, r.collection, &store.Filter{Field: fieldDate, Equals: date})
	if err != nil {
		return nil, fmt.Errorf("list reminders for %s: %w", date, err)
	}
	reminders := make([]Reminder, 0, len(docs))
	for _, doc := range docs {
		if doc.StringField(store.FieldKind) != KindReminder {
			continue
		}
		reminders = append(reminders, reminderFromDocument(doc))
	}
	return reminders, nil
}

// Update patches the text or timing fields of a reminder. Empty
// arguments leave the stored value untouched.
func (r *Repository) Update(ctx context.Context, id string, task, date, startTime, endTime string) error {
	fields := map[string]any{}
	if task != "" {
		fields[fieldTask] = task
	}
	if date != "" {
		fields[fieldDate] = date
	}
	if startTime != "" {
		fields[fieldStartTime] = startTime
	}
	if endTime != "" {
		fields[fieldEndTime] = endTime
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.client.Patch(ctx, id, fields); err != nil {
		return fmt.Errorf("update reminder %s: %w", id, err)
	}
	return nil
}

// Delete archives a reminder.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	return nil
}

// CleanupOld archives reminders dated more than monthsOld months ago,
// at most maxItems per run so a huge backlog cannot stall the bot.
// Returns the number archived.
func (r *Repository) CleanupOld(ctx context.Context, monthsOld int, maxItems int, today time.Time) (int, error) {
	cutoff := today.AddDate(0, -monthsOld, 0)

	docs, err := r.client.QueryAll(ctx, r.collection, &store.Filter{Field: store.FieldKind, Equals: KindReminder})
	if err != nil {
		return 0, fmt.Errorf("query reminders for cleanup: %w", err)
	}

	removed := 0
	for _, doc := range docs {
		if removed >= maxItems {
			break
		}
		date := store.ParseDate(doc.StringField(fieldDate))
		if date.IsZero() || date.Malformed() || !date.Time.Before(cutoff) {
			continue
		}
		if err := r.client.Delete(ctx, doc.ID); err != nil {
			r.logger.Warn("could not archive old reminder", "id", doc.ID, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
