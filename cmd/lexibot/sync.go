package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksmolina/lexibot/internal/database"
	"github.com/ksmolina/lexibot/internal/datasync"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror all vocabulary items into the local MySQL database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			ctx := cmd.Context()
			items := newAdapter(cfg).FetchAll(ctx)
			if err := datasync.Sync(ctx, db, items); err != nil {
				return err
			}
			fmt.Printf("Synced %d items.\n", len(items))
			return nil
		},
	}
}
