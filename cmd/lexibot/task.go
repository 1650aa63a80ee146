package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksmolina/lexibot/internal/tasks"
)

func newTaskCommand() *cobra.Command {
	taskCommand := &cobra.Command{
		Use:   "task",
		Short: "Capture and list reminders from natural-language text",
	}

	taskCommand.AddCommand(newTaskAddCommand())
	taskCommand.AddCommand(newTaskListCommand())
	taskCommand.AddCommand(newTaskDeleteCommand())
	taskCommand.AddCommand(newTaskBlocksCommand())
	taskCommand.AddCommand(newTaskCleanupCommand())

	return taskCommand
}

func newTaskAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: `Create a reminder from free text, e.g. "明天下午三点开会" or "dentist tomorrow 3pm"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			text := strings.Join(args, " ")

			parsed := tasks.NewParser().Parse(text)
			if parsed.NeedsAIFallback() && cfg.OpenAI.APIKey != "" {
				aiParsed, err := tasks.NewAIParser(cfg.OpenAI.APIKey, cfg.OpenAI.Model).
					Parse(ctx, text, cfg.Review.Timezone)
				if err != nil {
					fmt.Printf("AI parsing unavailable (%v), keeping the regex result.\n", err)
				} else {
					parsed = aiParsed
				}
			}

			repo := tasks.NewRepository(newStoreClient(cfg), cfg.Tasks.Collection)
			reminder, err := repo.Create(ctx, parsed)
			if err != nil {
				return err
			}

			fmt.Println(parsed.FormatConfirmation())
			fmt.Printf("Saved as %s\n", reminder.ID)
			return nil
		},
	}
}

func newTaskListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [date]",
		Short: "List reminders for a date (YYYY-MM-DD, default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			date := time.Now().Format("2006-01-02")
			if len(args) == 1 {
				if _, err := time.Parse("2006-01-02", args[0]); err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
				}
				date = args[0]
			}

			repo := tasks.NewRepository(newStoreClient(cfg), cfg.Tasks.Collection)
			reminders, err := repo.ListForDate(cmd.Context(), date)
			if err != nil {
				return err
			}

			if len(reminders) == 0 {
				fmt.Printf("No reminders on %s.\n", date)
				return nil
			}
			fmt.Printf("Reminders on %s:\n", date)
			for _, reminder := range reminders {
				line := fmt.Sprintf("  [%s] %s", reminder.ID, reminder.Task)
				if reminder.StartTime != "" {
					line += " " + reminder.StartTime
					if reminder.EndTime != "" {
						line += "-" + reminder.EndTime
					}
				}
				if reminder.Priority != "" {
					line += fmt.Sprintf(" (%s, %s)", reminder.Priority, reminder.Category)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newTaskDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			repo := tasks.NewRepository(newStoreClient(cfg), cfg.Tasks.Collection)
			if err := repo.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

func newTaskBlocksCommand() *cobra.Command {
	var daysAhead int
	command := &cobra.Command{
		Use:   "blocks",
		Short: "Expand recurring time blocks from the blocks file into reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.Tasks.BlocksFile == "" {
				return fmt.Errorf("tasks.blocks_file is not configured")
			}

			blocks, err := tasks.LoadBlocks(cfg.Tasks.BlocksFile)
			if err != nil {
				return err
			}

			repo := tasks.NewRepository(newStoreClient(cfg), cfg.Tasks.Collection)
			result, err := repo.CreateRecurringBlocks(cmd.Context(), blocks, daysAhead, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Time blocks: %d created, %d already present.\n", result.Created, result.Skipped)
			return nil
		},
	}
	command.Flags().IntVar(&daysAhead, "days", 7, "how many days ahead to expand blocks")
	return command
}

func newTaskCleanupCommand() *cobra.Command {
	var monthsOld int
	var maxItems int
	command := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete old reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			repo := tasks.NewRepository(newStoreClient(cfg), cfg.Tasks.Collection)
			deleted, err := repo.CleanupOld(cmd.Context(), monthsOld, maxItems, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d old reminders.\n", deleted)
			return nil
		},
	}
	command.Flags().IntVar(&monthsOld, "months", 3, "delete reminders older than this many months")
	command.Flags().IntVar(&maxItems, "max", 100, "upper bound on deletions per run")
	return command
}
