package clock

import (
	"sync"
	"time"
)

// Fake is a deterministic Clock. Time stands still until Advance is
// called. Fake is safe for concurrent use.
//
// Callbacks run synchronously inside Advance, outside the clock's lock,
// so a callback may schedule further timers. Do not call Advance from a
// callback.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	seq      uint64
	fn       func()
	stopped  bool
	fired    bool
}

// NewFake returns a Fake clock set to initial.
func NewFake(initial time.Time) *Fake {
	return &Fake{now: initial}
}

// Now returns the current fake time.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run once the clock reaches now+d. A
// non-positive d registers a waiter due immediately; it fires on the
// next Advance, including Advance(0).
func (c *Fake) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}
	c.seq++
	w := &fakeWaiter{deadline: c.now.Add(d), seq: c.seq, fn: f}
	c.waiters = append(c.waiters, w)

	return &Timer{stopFunc: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if w.stopped || w.fired {
			return false
		}
		w.stopped = true
		return true
	}}
}

// Advance moves the clock forward by d. Due callbacks fire one at a time
// in deadline order (registration order breaks ties), and the clock
// reads each callback's deadline while it runs. Timers scheduled by a
// callback fire within the same Advance when they fall due before the
// target time.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		w := c.popDueLocked(target)
		if w == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if w.deadline.After(c.now) {
			c.now = w.deadline
		}
		c.mu.Unlock()

		w.fn()
	}
}

// Pending returns the number of timers that are neither stopped nor fired.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waiters {
		if !w.stopped {
			n++
		}
	}
	return n
}

// popDueLocked removes and returns the earliest waiter due at or before
// target, dropping stopped waiters along the way. c.mu must be held.
func (c *Fake) popDueLocked(target time.Time) *fakeWaiter {
	live := c.waiters[:0]
	var next *fakeWaiter
	for _, w := range c.waiters {
		if w.stopped {
			continue
		}
		live = append(live, w)
		if w.deadline.After(target) {
			continue
		}
		if next == nil || w.deadline.Before(next.deadline) ||
			(w.deadline.Equal(next.deadline) && w.seq < next.seq) {
			next = w
		}
	}
	c.waiters = live
	if next == nil {
		return nil
	}

	for i, w := range c.waiters {
		if w == next {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			break
		}
	}
	next.fired = true
	return next
}
