package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ksmolina/lexibot/internal/habits"
	"github.com/ksmolina/lexibot/internal/report"
	"github.com/ksmolina/lexibot/internal/review"
)

type reportFormat string

const (
	formatMarkdown reportFormat = "markdown"
	formatPDF      reportFormat = "pdf"
)

var (
	_          pflag.Value = (*reportFormat)(nil)
	allFormats             = []reportFormat{formatMarkdown, formatPDF}
)

func (f *reportFormat) Set(val string) error {
	for _, format := range allFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q, expected one of %v", val, allFormats)
}

func (f *reportFormat) String() string {
	return string(*f)
}

func (f *reportFormat) Type() string {
	return "format"
}

func newReportCommand() *cobra.Command {
	format := formatMarkdown
	command := &cobra.Command{
		Use:   "report",
		Short: "Write the weekly progress report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			items := newAdapter(cfg).FetchAll(ctx)
			tracker := habits.NewTracker(newStoreClient(cfg), cfg.Habits.Collection)
			habitStats, err := tracker.Weekly(ctx)
			if err != nil {
				return err
			}

			weekly := report.Weekly{
				GeneratedAt: time.Now(),
				Review:      review.ComputeStats(items, time.Now()),
				Habits:      habitStats,
			}

			path, err := weekly.WriteMarkdown(cfg.Outputs.ReportDirectory)
			if err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", path)

			if format == formatPDF {
				pdfPath, err := report.ConvertMarkdownToPDF(path)
				if err != nil {
					return fmt.Errorf("convert report to PDF: %w", err)
				}
				fmt.Printf("PDF written to %s\n", pdfPath)
			}
			return nil
		},
	}
	command.Flags().Var(&format, "format", fmt.Sprintf("report output format, one of %v", allFormats))
	return command
}
