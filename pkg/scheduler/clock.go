package scheduler

import (
	"slices"
	"sync"
	"time"
)

// Frame is one paint frame at 60Hz, the default coalescing window.
const Frame = time.Second / 60

// Clock defers a callback. Request returns a cancel function; calling it
// after the callback ran, or more than once, is harmless.
type Clock interface {
	Request(fn func()) (cancel func())
}

// TimerClock runs callbacks after a fixed delay on their own goroutine.
type TimerClock struct {
	delay time.Duration
}

// NewTimerClock returns a clock with the given delay. Non-positive delays
// use [Frame].
func NewTimerClock(d time.Duration) *TimerClock {
	if d <= 0 {
		d = Frame
	}
	return &TimerClock{delay: d}
}

// Delay returns the clock's delay.
func (c *TimerClock) Delay() time.Duration { return c.delay }

// Request implements [Clock].
func (c *TimerClock) Request(fn func()) func() {
	t := time.AfterFunc(c.delay, fn)
	return func() { t.Stop() }
}

// ManualClock holds callbacks until Flush is called. It is meant for tests
// and for hosts that drive frames themselves.
type ManualClock struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]func()
}

// NewManualClock returns an empty manual clock.
func NewManualClock() *ManualClock {
	return &ManualClock{pending: make(map[uint64]func())}
}

// Request implements [Clock].
func (c *ManualClock) Request(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.pending[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}
}

// Pending returns the number of callbacks waiting for a flush.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush runs every pending callback in request order on the calling
// goroutine and returns how many ran. Callbacks requested during the flush
// wait for the next one.
func (c *ManualClock) Flush() int {
	c.mu.Lock()
	ids := make([]uint64, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, c.pending[id])
	}
	clear(c.pending)
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
