// Package autosave coalesces bursts of edits into single writes and keeps
// each field group's save cycle honest when responses race each other.
package autosave

import (
	"sync"
	"time"
)

// Coalescer delays a callback until a quiet period has passed with no new
// work scheduled. Every Schedule call restarts the clock, so a burst of
// edits collapses into one callback after the burst ends.
type Coalescer struct {
	mu      sync.Mutex
	quiet   time.Duration
	timer   *time.Timer
	fn      func()
	pending bool
	gen     uint64
}

func NewCoalescer(quiet time.Duration) *Coalescer {
	return &Coalescer{quiet: quiet}
}

// Schedule arms (or re-arms) the timer with fn. Only the most recently
// scheduled callback runs.
func (c *Coalescer) Schedule(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.fn = fn
	c.pending = true
	c.timer = time.AfterFunc(c.quiet, func() { c.fire(gen) })
}

func (c *Coalescer) fire(gen uint64) {
	c.mu.Lock()
	// A timer that was stopped too late still calls in here. The generation
	// check keeps a stale fire from running a newer callback early.
	if gen != c.gen || !c.pending {
		c.mu.Unlock()
		return
	}
	fn := c.fn
	c.fn = nil
	c.pending = false
	c.timer = nil
	c.mu.Unlock()
	fn()
}

// Cancel drops any pending callback without running it.
func (c *Coalescer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.fn = nil
	c.pending = false
	c.gen++
}

// Flush runs the pending callback immediately, if there is one.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	if !c.pending {
		c.mu.Unlock()
		return
	}
	fn := c.fn
	c.fn = nil
	c.pending = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.mu.Unlock()
	fn()
}

// Pending reports whether a callback is waiting on the quiet period.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
