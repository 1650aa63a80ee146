package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/ksmolina/lexibot/internal/store"
)

// ScheduleConfig is the user-editable review schedule: at which hours a
// batch is delivered and how many words each batch carries. It survives
// redeploys by living in the store under a well-known config key.
type ScheduleConfig struct {
	ReviewHours   []int `json:"review_hours"`
	WordsPerBatch int   `json:"words_per_batch"`
}

const scheduleConfigKey = "__CONFIG_review_schedule__"

const (
	minWordsPerBatch = 1
	maxWordsPerBatch = 50
)

// DefaultScheduleConfig spreads five batches across the day.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		ReviewHours:   []int{8, 13, 17, 19, 22},
		WordsPerBatch: 20,
	}
}

// Normalize clamps the config to valid values, replacing anything out
// of range with the defaults. Hours are deduplicated and sorted.
func (c ScheduleConfig) Normalize() ScheduleConfig {
	defaults := DefaultScheduleConfig()

	seen := make(map[int]bool)
	var hours []int
	for _, h := range c.ReviewHours {
		if h < 0 || h > 23 || seen[h] {
			continue
		}
		seen[h] = true
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		hours = defaults.ReviewHours
	}
	sort.Ints(hours)

	words := c.WordsPerBatch
	if words < minWordsPerBatch || words > maxWordsPerBatch {
		words = defaults.WordsPerBatch
	}

	return ScheduleConfig{ReviewHours: hours, WordsPerBatch: words}
}

// Format renders the schedule for display.
func (c ScheduleConfig) Format() string {
	text := "Schedule:"
	for i, h := range c.ReviewHours {
		if i > 0 {
			text += ","
		}
		text += fmt.Sprintf(" %02d:00", h)
	}
	return fmt.Sprintf("%s\nWords per batch: %d", text, c.WordsPerBatch)
}

var (
	scheduleWordsPattern = regexp.MustCompile(`(?i)(\d+)\s*words?`)
	scheduleHoursPattern = regexp.MustCompile(`(?:at\s+)?((?:\d{1,2}\s*[,\s]\s*)*\d{1,2})\s*$`)
	scheduleHourPattern  = regexp.MustCompile(`\d{1,2}`)
)

// ErrScheduleNotParsed is returned when free text contains neither a
// word count nor an hour list.
var ErrScheduleNotParsed = errors.New("schedule text not understood")

// ParseScheduleText updates base from free text such as
// "20 words at 8 13 17 19 22". Fields not mentioned keep their value.
func ParseScheduleText(base ScheduleConfig, text string) (ScheduleConfig, error) {
	parsed := false

	if m := scheduleWordsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= minWordsPerBatch && n <= maxWordsPerBatch {
			base.WordsPerBatch = n
			parsed = true
		}
	}

	if m := scheduleHoursPattern.FindStringSubmatch(text); m != nil {
		var hours []int
		for _, raw := range scheduleHourPattern.FindAllString(m[1], -1) {
			h, err := strconv.Atoi(raw)
			if err == nil && h >= 0 && h <= 23 {
				hours = append(hours, h)
			}
		}
		if len(hours) > 0 {
			base.ReviewHours = hours
			parsed = true
		}
	}

	if !parsed {
		return base, ErrScheduleNotParsed
	}
	return base.Normalize(), nil
}

// LoadScheduleConfig reads the schedule from the store, falling back to
// the defaults when no record exists or the stored record is invalid.
func LoadScheduleConfig(ctx context.Context, client *store.Client, collection string) ScheduleConfig {
	var cfg ScheduleConfig
	if err := client.LoadConfigRecord(ctx, collection, scheduleConfigKey, &cfg); err != nil {
		return DefaultScheduleConfig()
	}
	return cfg.Normalize()
}

// SaveScheduleConfig persists the schedule to the store.
func SaveScheduleConfig(ctx context.Context, client *store.Client, collection string, cfg ScheduleConfig) error {
	return client.SaveConfigRecord(ctx, collection, scheduleConfigKey, cfg.Normalize())
}
