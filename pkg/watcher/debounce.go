package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the quiescence window applied to bursts of
// file-change events before the callback fires.
const DefaultDebounceDuration = 300 * time.Millisecond

// Debouncer collapses rapid triggers into a single callback. Each Trigger
// cancels the previously scheduled callback and schedules a fresh one, so
// only the last callback in a burst runs.
type Debouncer struct {
	duration time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

// NewDebouncer creates a debouncer with the given quiescence window.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{duration: d}
}

// Trigger schedules fn to run after the quiescence window. A pending
// callback from an earlier Trigger is dropped, not queued.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
