// Package scheduler provides the cooperative hour trigger that drives
// scheduled review deliveries. It is a single-goroutine loop, so the
// single-writer model of the review core holds: no two batches are ever
// delivered concurrently.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner fires a callback once per configured hour, in the configured
// timezone.
type Runner struct {
	mu       sync.Mutex
	hours    map[int]bool
	location *time.Location
	fire     func(ctx context.Context)
	interval time.Duration

	lastFired time.Time
}

// NewRunner creates a runner firing at the given hours (0-23).
func NewRunner(hours []int, location *time.Location, fire func(ctx context.Context)) *Runner {
	if location == nil {
		location = time.Local
	}
	set := make(map[int]bool, len(hours))
	for _, h := range hours {
		set[h] = true
	}
	return &Runner{
		hours:    set,
		location: location,
		fire:     fire,
		interval: time.Minute,
	}
}

// SetHours replaces the trigger hours, used when the user edits the
// schedule at runtime.
func (r *Runner) SetHours(hours []int) {
	set := make(map[int]bool, len(hours))
	for _, h := range hours {
		set[h] = true
	}
	r.mu.Lock()
	r.hours = set
	r.mu.Unlock()
}

// RunOnce fires the callback immediately, outside the schedule. The
// next scheduled hour still fires as usual.
func (r *Runner) RunOnce(ctx context.Context) {
	r.fire(ctx)
}

// Run blocks until ctx is cancelled, checking once a minute whether a
// configured hour has been reached. A missed minute (process stall)
// does not double-fire: each hour fires at most once.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.tick(ctx, now)
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		}
	}
}

func (r *Runner) tick(ctx context.Context, now time.Time) {
	local := now.In(r.location)
	r.mu.Lock()
	scheduled := r.hours[local.Hour()]
	r.mu.Unlock()
	// A short grace window covers ticks that drift past the top of the
	// hour; the lastFired mark keeps each hour to a single firing.
	if !scheduled || local.Minute() > 2 {
		return
	}
	hourMark := local.Truncate(time.Hour)
	if !hourMark.After(r.lastFired) {
		return
	}
	r.lastFired = hourMark

	slog.Info("scheduled trigger firing", "hour", local.Hour())
	r.fire(ctx)
}
