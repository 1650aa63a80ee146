package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksmolina/lexibot/internal/bot"
	"github.com/ksmolina/lexibot/internal/chat"
	"github.com/ksmolina/lexibot/internal/cli"
	"github.com/ksmolina/lexibot/internal/scheduler"
	"github.com/ksmolina/lexibot/internal/store"
)

func newReviewCommand() *cobra.Command {
	reviewCommand := &cobra.Command{
		Use:   "review",
		Short: "Spaced-repetition review of vocabulary items",
	}

	reviewCommand.AddCommand(newReviewNowCommand())
	reviewCommand.AddCommand(newReviewDueCommand())
	reviewCommand.AddCommand(newReviewServeCommand())
	reviewCommand.AddCommand(newReviewScheduleCommand())

	return reviewCommand
}

func newReviewNowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Run one interactive review session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			adapter := newAdapter(cfg)
			schedule := bot.LoadScheduleConfig(ctx, newStoreClient(cfg), cfg.Store.Collection)

			quizCLI := cli.NewReviewQuizCLI(ctx, adapter, adapter, schedule.WordsPerBatch)
			fmt.Printf("Review session started with %d items.\n", quizCLI.ItemCount())
			return quizCLI.Run(ctx, quizCLI)
		},
	}
}

func newReviewDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Show how many items are due, new, and mastered",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			adapter := newAdapter(cfg)
			messenger := chat.NewConsoleMessenger(os.Stdout)
			orchestrator := bot.NewOrchestrator(adapter, adapter, messenger, 1)
			reviewBot := bot.NewReviewBot(orchestrator, adapter)

			fmt.Println(bot.FormatStats(reviewBot.DueStats(cmd.Context())))
			return nil
		},
	}
}

func newReviewScheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule [text]",
		Short: `Show or update the delivery schedule, e.g. "20 words at 8 13 17 19 22"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			client := newStoreClient(cfg)
			schedule := bot.LoadScheduleConfig(ctx, client, cfg.Store.Collection)

			if len(args) == 0 {
				fmt.Println(schedule.Format())
				return nil
			}

			updated, err := bot.ParseScheduleText(schedule, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("parse schedule: %w", err)
			}
			if err := bot.SaveScheduleConfig(ctx, client, cfg.Store.Collection, updated); err != nil {
				return fmt.Errorf("save schedule: %w", err)
			}
			fmt.Println(updated.Format())
			return nil
		},
	}
}

func newReviewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled review loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			client := newStoreClient(cfg)
			adapter := newAdapter(cfg)
			schedule := bot.LoadScheduleConfig(ctx, client, cfg.Store.Collection)

			location, err := cfg.Review.Location()
			if err != nil {
				return err
			}

			messenger := chat.NewConsoleMessenger(os.Stdout)
			orchestrator := bot.NewOrchestrator(adapter, adapter, messenger, schedule.WordsPerBatch)
			reviewBot := bot.NewReviewBot(orchestrator, adapter)

			runner := scheduler.NewRunner(schedule.ReviewHours, location, func(ctx context.Context) {
				if err := reviewBot.DeliverBatch(ctx, false); err != nil {
					fmt.Fprintf(os.Stderr, "scheduled batch failed: %v\n", err)
				}
			})

			go runner.Run(ctx)

			fmt.Println(schedule.Format())
			fmt.Println(`Commands: now, due, pause, resume, schedule <text>, quit.
Answer items by typing their button tokens (for example "good_<id>").`)

			loop := &serveLoop{
				client:     client,
				collection: cfg.Store.Collection,
				schedule:   schedule,
				reviewBot:  reviewBot,
				runner:     runner,
			}
			return loop.run(ctx)
		},
	}
}

// serveLoop reads user commands and button tokens from stdin until the
// context is cancelled or the user quits.
type serveLoop struct {
	client     *store.Client
	collection string
	schedule   bot.ScheduleConfig
	reviewBot  *bot.ReviewBot
	runner     *scheduler.Runner
}

func (l *serveLoop) run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Received interrupt signal, exiting...")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if input == "quit" || input == "exit" {
				return nil
			}
			l.handleInput(ctx, input)
		}
	}
}

func (l *serveLoop) handleInput(ctx context.Context, input string) {
	switch {
	case input == "now":
		if err := l.reviewBot.DeliverBatch(ctx, true); err != nil {
			fmt.Fprintf(os.Stderr, "manual batch failed: %v\n", err)
		}
	case input == "due":
		fmt.Println(bot.FormatStats(l.reviewBot.DueStats(ctx)))
	case input == "pause":
		l.reviewBot.Pause()
		fmt.Println("Scheduled reviews paused. Type \"resume\" to continue or \"now\" for a manual batch.")
	case input == "resume":
		l.reviewBot.Resume()
		fmt.Println("Scheduled reviews resumed.")
	case strings.HasPrefix(input, "schedule"):
		l.updateSchedule(ctx, strings.TrimSpace(strings.TrimPrefix(input, "schedule")))
	default:
		if err := l.reviewBot.HandleCallback(ctx, input); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
}

func (l *serveLoop) updateSchedule(ctx context.Context, text string) {
	if text == "" {
		fmt.Println(l.schedule.Format())
		return
	}
	updated, err := bot.ParseScheduleText(l.schedule, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	if err := bot.SaveScheduleConfig(ctx, l.client, l.collection, updated); err != nil {
		fmt.Fprintf(os.Stderr, "save schedule: %v\n", err)
		return
	}
	l.schedule = updated
	l.runner.SetHours(updated.ReviewHours)
	fmt.Println(updated.Format())
}
