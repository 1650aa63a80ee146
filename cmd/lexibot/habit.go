package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksmolina/lexibot/internal/habits"
)

func newHabitCommand() *cobra.Command {
	habitCommand := &cobra.Command{
		Use:   "habit",
		Short: "Track daily listening, speaking, and video habits",
	}

	habitCommand.AddCommand(newHabitMarkCommand("listened", "Mark today's listening practice as done"))
	habitCommand.AddCommand(newHabitMarkCommand("spoke", "Mark today's speaking practice as done"))
	habitCommand.AddCommand(newHabitVideoCommand())
	habitCommand.AddCommand(newHabitTaskCommand())
	habitCommand.AddCommand(newHabitStatsCommand())

	return habitCommand
}

func newHabitTracker() (*habits.Tracker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return habits.NewTracker(newStoreClient(cfg), cfg.Habits.Collection), nil
}

func newHabitMarkCommand(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := newHabitTracker()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var markErr error
			if name == "listened" {
				markErr = tracker.MarkListened(ctx, true)
			} else {
				markErr = tracker.MarkSpoke(ctx, true)
			}
			if markErr != nil {
				return markErr
			}
			fmt.Printf("Marked %s for today. 🎉\n", name)
			return nil
		},
	}
}

func newHabitVideoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "video <url>",
		Short: "Record today's watched video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := newHabitTracker()
			if err != nil {
				return err
			}
			if err := tracker.SetVideo(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Video recorded for today.")
			return nil
		},
	}
}

func newHabitTaskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "task <id>",
		Short: "Mark a reminder as completed in today's habit record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := newHabitTracker()
			if err != nil {
				return err
			}
			if err := tracker.MarkTaskDone(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Task marked as done.")
			return nil
		},
	}
}

func newHabitStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the last week's habit stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := newHabitTracker()
			if err != nil {
				return err
			}
			stats, err := tracker.Weekly(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf(`📊 Habit Stats (last %d days)

🎧 Listening: %d days
🗣️ Speaking: %d days
🎬 Videos: %d
🔥 Streak: %d days
`, stats.TotalDays, stats.ListeningDays, stats.SpeakingDays, stats.VideosWatched, stats.Streak)
			return nil
		},
	}
}
