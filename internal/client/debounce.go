package client

import (
    "sync"
    "time"
)

// SearchDebounce is the delay applied to the email filter input so a
// request is issued once typing pauses, not once per keystroke.
const SearchDebounce = 500 * time.Millisecond

// Debouncer coalesces rapid calls into one: each Do discards the
// previously scheduled function (not merely delays it) and arms a
// fresh timer.  Only the last function within a burst ever runs.
type Debouncer struct {
    d     time.Duration
    mu    sync.Mutex
    timer *time.Timer
}

// NewDebouncer returns a Debouncer with the given delay; a
// non-positive delay falls back to SearchDebounce.
func NewDebouncer(d time.Duration) *Debouncer {
    if d <= 0 {
        d = SearchDebounce
    }
    return &Debouncer{d: d}
}

// Do schedules fn to run after the delay, cancelling any pending
// predecessor.  The superseded function never runs.
func (b *Debouncer) Do(fn func()) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if b.timer != nil {
        b.timer.Stop()
    }
    b.timer = time.AfterFunc(b.d, fn)
}

// Stop cancels any pending function.  Safe to call when nothing is
// scheduled; used on view teardown so a stale request cannot fire
// into a dismantled screen.
func (b *Debouncer) Stop() {
    b.mu.Lock()
    defer b.mu.Unlock()
    if b.timer != nil {
        b.timer.Stop()
        b.timer = nil
    }
}
