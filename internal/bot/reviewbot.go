package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ksmolina/lexibot/internal/review"
)

// ReviewBot is the long-running review front end: it reacts to the hour
// trigger, delivers batches, and routes button presses back to the
// orchestrator. A single user drives it, so one current session is
// enough; starting a new batch supersedes the old one and any stale
// button press is simply rejected.
type ReviewBot struct {
	orchestrator *Orchestrator
	source       ItemSource
	logger       *slog.Logger
	now          func() time.Time

	mu      sync.Mutex
	paused  bool
	current *Session
}

// NewReviewBot creates a bot around an orchestrator.
func NewReviewBot(orchestrator *Orchestrator, source ItemSource) *ReviewBot {
	return &ReviewBot{
		orchestrator: orchestrator,
		source:       source,
		logger:       slog.Default(),
		now:          time.Now,
	}
}

// Pause stops scheduled deliveries. Manual triggers still work.
func (b *ReviewBot) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
}

// Resume re-enables scheduled deliveries.
func (b *ReviewBot) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
}

// Paused reports whether scheduled deliveries are suspended.
func (b *ReviewBot) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paused
}

// DeliverBatch starts a new review session. Scheduled deliveries are
// skipped while paused; manual ones always run.
func (b *ReviewBot) DeliverBatch(ctx context.Context, manual bool) error {
	if b.Paused() && !manual {
		b.logger.Info("review is paused, skipping scheduled batch")
		return nil
	}

	session, err := b.orchestrator.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("start review session: %w", err)
	}

	b.mu.Lock()
	b.current = session
	b.mu.Unlock()

	b.logger.Info("delivered review batch",
		"session", session.ID,
		"items", len(session.Items))
	return nil
}

// HandleCallback routes one pressed button to the current session.
func (b *ReviewBot) HandleCallback(ctx context.Context, token string) error {
	b.mu.Lock()
	session := b.current
	b.mu.Unlock()

	if session == nil {
		return fmt.Errorf("no active review session")
	}
	return b.orchestrator.HandleResponse(ctx, session, token)
}

// DueStats recomputes the pool statistics from the store.
func (b *ReviewBot) DueStats(ctx context.Context) review.Stats {
	return review.ComputeStats(b.source.FetchAll(ctx), b.now())
}

// FormatStats renders pool statistics for the /due display.
func FormatStats(stats review.Stats) string {
	return fmt.Sprintf(`📊 Review Stats

🔴 Overdue: %d
🟡 Due today: %d
🆕 New: %d
🎓 Mastered: %d
📚 Total: %d`,
		stats.Overdue, stats.DueToday, stats.New, stats.Mastered, stats.Total)
}
