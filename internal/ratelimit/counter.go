// Package ratelimit throttles repetitive log lines while still counting every
// occurrence.
package ratelimit

import (
	"sync/atomic"
	"time"
)

// Counter counts events and allows a log line at most once per interval.
// The zero value never throttles. It is safe for concurrent use.
type Counter struct {
	interval time.Duration
	lastLog  atomic.Int64
	total    atomic.Uint64
	now      func() time.Time
}

// NewCounter returns a Counter that permits one log per interval.
func NewCounter(interval time.Duration) *Counter {
	return &Counter{interval: interval}
}

// Inc records one event and returns the running total and whether the caller
// may log it now.
func (c *Counter) Inc() (uint64, bool) {
	if c == nil {
		return 0, false
	}
	total := c.total.Add(1)
	if c.interval <= 0 {
		return total, true
	}
	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	stamp := now.UnixNano()
	last := c.lastLog.Load()
	if last != 0 && stamp-last < c.interval.Nanoseconds() {
		return total, false
	}
	return total, c.lastLog.CompareAndSwap(last, stamp)
}

// Total is the number of recorded events.
func (c *Counter) Total() uint64 {
	if c == nil {
		return 0
	}
	return c.total.Load()
}
