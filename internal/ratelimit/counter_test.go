package ratelimit

import (
	"testing"
	"time"
)

func TestCounterThrottles(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c := NewCounter(30 * time.Second)
	c.now = func() time.Time { return clock }

	if total, ok := c.Inc(); !ok || total != 1 {
		t.Fatalf("first event should log, got total=%d ok=%v", total, ok)
	}
	clock = base.Add(10 * time.Second)
	if total, ok := c.Inc(); ok || total != 2 {
		t.Fatalf("second event inside interval should be quiet, got total=%d ok=%v", total, ok)
	}
	clock = base.Add(31 * time.Second)
	if total, ok := c.Inc(); !ok || total != 3 {
		t.Fatalf("event after interval should log, got total=%d ok=%v", total, ok)
	}
	if c.Total() != 3 {
		t.Fatalf("expected total 3, got %d", c.Total())
	}
}

func TestCounterZeroIntervalAlwaysLogs(t *testing.T) {
	c := NewCounter(0)
	for i := 0; i < 3; i++ {
		if _, ok := c.Inc(); !ok {
			t.Fatalf("zero interval should never throttle")
		}
	}
	var nilCounter *Counter
	if _, ok := nilCounter.Inc(); ok {
		t.Fatalf("nil counter should not log")
	}
}
