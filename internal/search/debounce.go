package search

import (
	"sync"
	"time"
)

// Debouncer defers search-as-you-type triggers: each keystroke cancels the
// previously scheduled invocation, so at most one fires per quiet period.
// Queries at or below the minimum length never schedule anything.
type Debouncer struct {
	quiet     time.Duration
	minLength int

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period and
// minimum query length.
func NewDebouncer(quiet time.Duration, minLength int) *Debouncer {
	return &Debouncer{quiet: quiet, minLength: minLength}
}

// Trigger schedules fn after the quiet period, replacing any pending
// invocation. Short queries only cancel.
func (d *Debouncer) Trigger(query string, fn func(query string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if len(query) <= d.minLength {
		return
	}
	d.timer = time.AfterFunc(d.quiet, func() { fn(query) })
}

// Cancel drops any pending invocation.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
