package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
)

// RetryPolicy controls how store operations retry transient failures.
// Attempts is the total attempt count, BaseDelay the first backoff delay;
// each further attempt doubles it. Tests inject a zero-delay policy.
type RetryPolicy struct {
	Attempts  uint
	BaseDelay time.Duration
}

// DefaultRetryPolicy retries three times with a 2s base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: 2 * time.Second}
}

func (p RetryPolicy) run(ctx context.Context, op func() error) error {
	return retry.Do(
		func() error {
			if err := op(); err != nil {
				if !IsTransient(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// Adapter exposes the two operations the review scheduler needs on top
// of the raw client: a full fetch across the configured vocabulary
// collections and a partial update of one item's review state.
type Adapter struct {
	client      *Client
	collections []string
	policy      RetryPolicy
	logger      *slog.Logger
}

// NewAdapter creates an Adapter over one or more vocabulary collections.
func NewAdapter(client *Client, collections []string, policy RetryPolicy) *Adapter {
	if policy.Attempts == 0 {
		policy = DefaultRetryPolicy()
	}
	return &Adapter{
		client:      client,
		collections: collections,
		policy:      policy,
		logger:      slog.Default(),
	}
}

// FetchAll retrieves every vocabulary item across all configured
// collections, paginating until the store reports no more pages.
// When retries are exhausted it returns an empty slice rather than an
// error: the caller treats that as "nothing to review" instead of
// crashing the batch job. Failures are logged.
func (a *Adapter) FetchAll(ctx context.Context) []Item {
	filter := &Filter{Field: FieldKind, Equals: KindVocabulary}

	var items []Item
	for _, collection := range a.collections {
		var docs []Document
		err := a.policy.run(ctx, func() error {
			fetched, err := a.client.QueryAll(ctx, collection, filter)
			if err != nil {
				return err
			}
			docs = fetched
			return nil
		})
		if err != nil {
			a.logger.Error("fetching vocabulary items failed, treating collection as empty",
				"collection", collection,
				"error", err)
			continue
		}
		for _, doc := range docs {
			items = append(items, ItemFromDocument(doc, collection))
		}
	}
	if items == nil {
		items = []Item{}
	}
	return items
}

// UpdateReviewState writes the three review-state fields of one item,
// leaving content fields untouched. The patch is idempotent, so it is
// retried blindly on transient failures; after retries are exhausted the
// error is returned so the caller can surface it to the user instead of
// silently dropping the review event.
func (a *Adapter) UpdateReviewState(ctx context.Context, itemID string, lastReviewed, nextReview time.Time, reviewCount int) error {
	fields := map[string]any{
		FieldLastReviewed: NewDate(lastReviewed).String(),
		FieldNextReview:   NewDate(nextReview).String(),
		FieldReviewCount:  reviewCount,
	}
	if err := a.policy.run(ctx, func() error {
		return a.client.Patch(ctx, itemID, fields)
	}); err != nil {
		return fmt.Errorf("update review state of item %s: %w", itemID, err)
	}
	return nil
}

// MarkMastered flags an item so batch selection skips it from now on.
func (a *Adapter) MarkMastered(ctx context.Context, itemID string, mastered bool) error {
	if err := a.policy.run(ctx, func() error {
		return a.client.Patch(ctx, itemID, map[string]any{FieldMastered: mastered})
	}); err != nil {
		return fmt.Errorf("mark item %s mastered=%t: %w", itemID, mastered, err)
	}
	return nil
}
