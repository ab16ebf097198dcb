// Package debounce delays a task until its caller has been quiet for a
// while. Each Schedule replaces the pending task; callbacks never overlap.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the keystroke debounce used by interactive front-ends.
const DefaultDelay = 90 * time.Millisecond

// Debouncer runs the most recently scheduled task after Delay.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending func()

	// run serializes callbacks so at most one is in flight.
	run sync.Mutex
}

// New returns a debouncer. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending task and runs fn after the delay.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	d.run.Lock()
	defer d.run.Unlock()

	// A newer task scheduled while waiting for the previous callback wins.
	d.mu.Lock()
	stale := gen != d.gen
	d.mu.Unlock()
	if stale {
		return
	}
	fn()
}

// take removes the pending task, if any, and invalidates its timer.
func (d *Debouncer) take() func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.pending
	d.pending = nil
	return fn
}

// Flush runs the pending task now. It reports whether there was one.
func (d *Debouncer) Flush() bool {
	fn := d.take()
	if fn == nil {
		return false
	}
	d.run.Lock()
	defer d.run.Unlock()
	fn()
	return true
}

// Stop cancels the pending task. It reports whether there was one.
func (d *Debouncer) Stop() bool {
	return d.take() != nil
}
