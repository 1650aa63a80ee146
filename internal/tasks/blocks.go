package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ksmolina/lexibot/internal/store"
)

// Block is one recurring time block from the schedule file, such as a
// daily language-practice slot or a weekday gym session.
type Block struct {
	Name      string   `yaml:"name"`
	Days      []string `yaml:"days"` // weekday names; empty means every day
	StartTime string   `yaml:"start_time"`
	EndTime   string   `yaml:"end_time"`
	Category  string   `yaml:"category"`
	Priority  string   `yaml:"priority"`
}

// LoadBlocks reads the recurring-blocks schedule file.
func LoadBlocks(path string) ([]Block, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}
	var config struct {
		Blocks []Block `yaml:"blocks"`
	}
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal > %w", err)
	}
	return config.Blocks, nil
}

func (b Block) appliesOn(day time.Time) bool {
	if len(b.Days) == 0 {
		return true
	}
	weekday := strings.ToLower(day.Weekday().String())
	for _, name := range b.Days {
		if strings.ToLower(strings.TrimSpace(name)) == weekday {
			return true
		}
	}
	return false
}

// BlockResult summarizes one recurring-block expansion run.
type BlockResult struct {
	Created int
	Skipped int
}

// CreateRecurringBlocks materializes each block as a dated reminder for
// the next daysAhead days. A (block name, date) pair that already
// exists in the store is skipped, so the expansion is safe to re-run
// daily.
func (r *Repository) CreateRecurringBlocks(ctx context.Context, blocks []Block, daysAhead int, today time.Time) (BlockResult, error) {
	var result BlockResult
	for offset := 0; offset < daysAhead; offset++ {
		day := today.AddDate(0, 0, offset)
		date := day.Format("2006-01-02")

		existing, err := r.ListForDate(ctx, date)
		if err != nil {
			return result, fmt.Errorf("list existing blocks for %s: %w", date, err)
		}
		existingNames := make(map[string]bool, len(existing))
		for _, reminder := range existing {
			if reminder.BlockName != "" {
				existingNames[reminder.BlockName] = true
			}
		}

		for _, block := range blocks {
			if !block.appliesOn(day) {
				continue
			}
			if existingNames[block.Name] {
				result.Skipped++
				continue
			}

			priority := block.Priority
			if priority == "" {
				priority = "Mid"
			}
			_, err := r.client.Create(ctx, r.collection, map[string]any{
				store.FieldKind: KindReminder,
				fieldTask:       block.Name,
				fieldBlockName:  block.Name,
				fieldDate:       date,
				fieldStartTime:  block.StartTime,
				fieldEndTime:    block.EndTime,
				fieldCategory:   block.Category,
				fieldPriority:   priority,
			})
			if err != nil {
				return result, fmt.Errorf("create block %q on %s: %w", block.Name, date, err)
			}
			result.Created++
		}
	}

	slog.Default().Info("recurring blocks expanded",
		"created", result.Created,
		"skipped", result.Skipped,
		"days", daysAhead)
	return result, nil
}
