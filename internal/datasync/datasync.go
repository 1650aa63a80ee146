// Package datasync mirrors the remote vocabulary collections into a
// local MySQL table. The mirror is a backup and an offline analysis
// surface; the remote store stays the source of truth and nothing is
// ever synced back.
package datasync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ksmolina/lexibot/internal/database"
	"github.com/ksmolina/lexibot/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS vocabulary_items (
    item_id       VARCHAR(64)  NOT NULL,
    collection    VARCHAR(64)  NOT NULL,
    title         TEXT         NOT NULL,
    meaning       TEXT,
    explanation   TEXT,
    example       TEXT,
    category      VARCHAR(64),
    review_count  INT          NOT NULL DEFAULT 0,
    last_reviewed DATE,
    next_review   DATE,
    date_added    DATE,
    mastered      TINYINT(1)   NOT NULL DEFAULT 0,
    synced_at     DATETIME     NOT NULL,
    PRIMARY KEY (item_id)
);
`

const upsertQuery = `
INSERT INTO vocabulary_items (
    item_id, collection, title, meaning, explanation, example, category,
    review_count, last_reviewed, next_review, date_added, mastered, synced_at
) VALUES (
    :item_id, :collection, :title, :meaning, :explanation, :example, :category,
    :review_count, :last_reviewed, :next_review, :date_added, :mastered, :synced_at
) ON DUPLICATE KEY UPDATE
    collection = VALUES(collection),
    title = VALUES(title),
    meaning = VALUES(meaning),
    explanation = VALUES(explanation),
    example = VALUES(example),
    category = VALUES(category),
    review_count = VALUES(review_count),
    last_reviewed = VALUES(last_reviewed),
    next_review = VALUES(next_review),
    date_added = VALUES(date_added),
    mastered = VALUES(mastered),
    synced_at = VALUES(synced_at)
`

type itemRow struct {
	ItemID       string     `db:"item_id"`
	Collection   string     `db:"collection"`
	Title        string     `db:"title"`
	Meaning      string     `db:"meaning"`
	Explanation  string     `db:"explanation"`
	Example      string     `db:"example"`
	Category     string     `db:"category"`
	ReviewCount  int        `db:"review_count"`
	LastReviewed *time.Time `db:"last_reviewed"`
	NextReview   *time.Time `db:"next_review"`
	DateAdded    *time.Time `db:"date_added"`
	Mastered     bool       `db:"mastered"`
	SyncedAt     time.Time  `db:"synced_at"`
}

func toRow(item store.Item, syncedAt time.Time) itemRow {
	row := itemRow{
		ItemID:      item.ID,
		Collection:  item.Collection,
		Title:       item.Title,
		Meaning:     item.Meaning,
		Explanation: item.Explanation,
		Example:     item.Example,
		Category:    item.Category,
		ReviewCount: item.ReviewCount,
		Mastered:    item.Mastered,
		SyncedAt:    syncedAt,
	}
	row.LastReviewed = dateOrNil(item.LastReviewed)
	row.NextReview = dateOrNil(item.NextReview)
	row.DateAdded = dateOrNil(item.DateAdded)
	return row
}

// dateOrNil maps absent and malformed dates to NULL: the mirror keeps
// only values it can type as DATE.
func dateOrNil(d store.Date) *time.Time {
	if d.IsZero() || d.Malformed() {
		return nil
	}
	t := d.Time
	return &t
}

// Sync upserts every item into the mirror table inside one
// transaction. Re-running is idempotent per item id.
func Sync(ctx context.Context, db *sqlx.DB, items []store.Item) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure mirror schema: %w", err)
	}

	syncedAt := time.Now().UTC()
	err := database.RunInTx(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, item := range items {
			if _, err := tx.NamedExecContext(ctx, upsertQuery, toRow(item, syncedAt)); err != nil {
				return fmt.Errorf("upsert item %s: %w", item.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Default().Info("mirror sync completed", "items", len(items))
	return nil
}
