package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksmolina/lexibot/internal/inference"
	"github.com/ksmolina/lexibot/internal/inference/openai"
)

func newCaptureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "capture <text>",
		Short: "Extract vocabulary entries from free text and save the new ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
			}

			var client inference.Client = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.RetryAttempts)
			if cfg.OpenAI.CacheDirectory != "" {
				client = inference.NewCachedClient(client, inference.NewAnalysisCache(cfg.OpenAI.CacheDirectory))
			}

			capturer := inference.NewCapturer(client, newStoreClient(cfg), cfg.Store.Collection, slog.Default())
			result, err := capturer.Capture(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			for _, entry := range result.Saved {
				fmt.Printf("✅ %s — %s\n", entry.Title, entry.Meaning)
			}
			for _, entry := range result.Duplicates {
				fmt.Printf("⏭️ %s (already saved)\n", entry.Title)
			}
			if len(result.Saved) == 0 && len(result.Duplicates) == 0 {
				fmt.Println("No vocabulary entries found in the text.")
			}
			return nil
		},
	}
}
