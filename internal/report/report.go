// Package report renders the weekly progress report: review pool status
// plus habit stats, as markdown with an optional PDF conversion.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mandolyte/mdtopdf"

	"github.com/ksmolina/lexibot/internal/habits"
	"github.com/ksmolina/lexibot/internal/review"
)

// Weekly holds everything the weekly report needs.
type Weekly struct {
	GeneratedAt time.Time
	Review      review.Stats
	Habits      habits.WeeklyStats
}

// Markdown renders the report as a markdown document.
func (w Weekly) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly Progress Report\n\n")
	fmt.Fprintf(&b, "Generated on %s\n\n", w.GeneratedAt.Format("2006-01-02"))

	fmt.Fprintf(&b, "## Vocabulary Review\n\n")
	fmt.Fprintf(&b, "| Status | Count |\n")
	fmt.Fprintf(&b, "| --- | --- |\n")
	fmt.Fprintf(&b, "| Overdue | %d |\n", w.Review.Overdue)
	fmt.Fprintf(&b, "| Due today | %d |\n", w.Review.DueToday)
	fmt.Fprintf(&b, "| New | %d |\n", w.Review.New)
	fmt.Fprintf(&b, "| Mastered | %d |\n", w.Review.Mastered)
	fmt.Fprintf(&b, "| Total | %d |\n\n", w.Review.Total)

	fmt.Fprintf(&b, "## Habits (last %d days)\n\n", w.Habits.TotalDays)
	fmt.Fprintf(&b, "- Listening: %d days\n", w.Habits.ListeningDays)
	fmt.Fprintf(&b, "- Speaking: %d days\n", w.Habits.SpeakingDays)
	fmt.Fprintf(&b, "- Videos watched: %d\n", w.Habits.VideosWatched)
	fmt.Fprintf(&b, "- Current streak: %d days\n", w.Habits.Streak)

	return b.String()
}

// WriteMarkdown writes the report to a .md file and returns its path.
func (w Weekly) WriteMarkdown(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("weekly-report-%s.md", w.GeneratedAt.Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(w.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return path, nil
}

// ConvertMarkdownToPDF converts a markdown report to PDF. The PDF is
// written next to the markdown file.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
