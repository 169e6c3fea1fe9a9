package poller

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// LatencyTracker keeps a bounded ring of durations for percentile estimates.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	count   int
	idx     int
}

func NewLatencyTracker(size int) *LatencyTracker {
	if size <= 0 {
		size = 256
	}
	return &LatencyTracker{samples: make([]time.Duration, size)}
}

func (t *LatencyTracker) Observe(d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.samples[t.idx] = d
	t.idx = (t.idx + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
	t.mu.Unlock()
}

type LatencySnapshot struct {
	P50 time.Duration
	P99 time.Duration
	N   int
}

func (t *LatencyTracker) Snapshot() LatencySnapshot {
	if t == nil {
		return LatencySnapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return LatencySnapshot{}
	}
	values := make([]time.Duration, t.count)
	copy(values, t.samples[:t.count])
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	p50 := values[t.count/2]
	p99 := values[int(float64(t.count-1)*0.99)]
	return LatencySnapshot{P50: p50, P99: p99, N: t.count}
}

// Metrics counts poll outcomes. Counters may be read from any goroutine.
type Metrics struct {
	latency  *LatencyTracker
	fetches  atomic.Uint64
	failures atomic.Uint64
	skipped  atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{latency: NewLatencyTracker(512)}
}

// Stats is a point-in-time copy of the poll metrics.
type Stats struct {
	Fetches  uint64
	Failures uint64
	Skipped  uint64
	Latency  LatencySnapshot
}

func (m *Metrics) Snapshot() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{
		Fetches:  m.fetches.Load(),
		Failures: m.failures.Load(),
		Skipped:  m.skipped.Load(),
		Latency:  m.latency.Snapshot(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("fetches %d  failed %d  skipped ticks %d  latency p50 %s p99 %s",
		s.Fetches, s.Failures, s.Skipped,
		s.Latency.P50.Round(time.Millisecond), s.Latency.P99.Round(time.Millisecond))
}
