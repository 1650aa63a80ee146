package inference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ksmolina/lexibot/internal/store"
)

// CaptureResult reports what happened to each extracted entry.
type CaptureResult struct {
	Saved      []Entry
	Duplicates []Entry
}

// Capturer extracts vocabulary entries from free text and saves the new
// ones to the store. Entries whose title already exists in the target
// collection are reported as duplicates and skipped, so the same text
// can be captured twice without creating double records.
type Capturer struct {
	client     Client
	store      *store.Client
	collection string
	logger     *slog.Logger
}

func NewCapturer(client Client, storeClient *store.Client, collection string, logger *slog.Logger) *Capturer {
	return &Capturer{
		client:     client,
		store:      storeClient,
		collection: collection,
		logger:     logger,
	}
}

// Capture runs extraction and saves each entry that is not already
// stored. Titles are compared case-insensitively with surrounding
// whitespace ignored.
func (c *Capturer) Capture(ctx context.Context, input string) (CaptureResult, error) {
	entries, err := c.client.ExtractEntries(ctx, input)
	if err != nil {
		return CaptureResult{}, fmt.Errorf("extract entries: %w", err)
	}
	if len(entries) == 0 {
		return CaptureResult{}, nil
	}

	existing, err := c.existingTitles(ctx)
	if err != nil {
		return CaptureResult{}, err
	}

	var result CaptureResult
	for _, entry := range entries {
		key := normalizeTitle(entry.Title)
		if key == "" {
			continue
		}
		if existing[key] {
			result.Duplicates = append(result.Duplicates, entry)
			continue
		}
		if err := c.save(ctx, entry); err != nil {
			return result, err
		}
		existing[key] = true
		result.Saved = append(result.Saved, entry)
	}

	c.logger.Info("captured vocabulary entries",
		"saved", len(result.Saved), "duplicates", len(result.Duplicates))
	return result, nil
}

func (c *Capturer) existingTitles(ctx context.Context) (map[string]bool, error) {
	docs, err := c.store.QueryAll(ctx, c.collection, &store.Filter{
		Field:  store.FieldKind,
		Equals: store.KindVocabulary,
	})
	if err != nil {
		return nil, fmt.Errorf("list existing titles: %w", err)
	}
	titles := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if key := normalizeTitle(doc.StringField(store.FieldTitle)); key != "" {
			titles[key] = true
		}
	}
	return titles, nil
}

func (c *Capturer) save(ctx context.Context, entry Entry) error {
	_, err := c.store.Create(ctx, c.collection, map[string]any{
		store.FieldKind:        store.KindVocabulary,
		store.FieldTitle:       entry.Title,
		store.FieldMeaning:     entry.Meaning,
		store.FieldExplanation: entry.Explanation,
		store.FieldExample:     entry.Example,
		store.FieldCategory:    entry.Category,
		store.FieldReviewCount: 0,
	})
	if err != nil {
		return fmt.Errorf("save entry %q: %w", entry.Title, err)
	}
	return nil
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
