package review

import (
	"math/rand"
	"sort"
	"time"

	"github.com/ksmolina/lexibot/internal/store"
)

// SelectBatch scores every item and returns the batchSize most urgent
// ones. Ties are broken by an independent random draw per item per call,
// deliberately not a stable order: repeated calls on the same tied set
// may reorder them, which keeps large tied groups from going stale.
// Mastered items never enter the batch. An empty or smaller pool returns
// fewer items, never an error.
func SelectBatch(items []store.Item, today time.Time, batchSize int, rng *rand.Rand) []store.Item {
	if batchSize <= 0 || len(items) == 0 {
		return []store.Item{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	type scored struct {
		item       store.Item
		score      float64
		tiebreaker float64
	}

	pool := make([]scored, 0, len(items))
	for _, item := range items {
		if item.Mastered {
			continue
		}
		pool = append(pool, scored{
			item:       item,
			score:      Score(item, today),
			tiebreaker: rng.Float64(),
		})
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].tiebreaker > pool[j].tiebreaker
	})

	if batchSize > len(pool) {
		batchSize = len(pool)
	}
	batch := make([]store.Item, 0, batchSize)
	for _, entry := range pool[:batchSize] {
		batch = append(batch, entry.item)
	}
	return batch
}
