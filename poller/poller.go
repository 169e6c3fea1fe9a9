// Package poller drives the dashboard: it fetches the status snapshot on a
// fixed interval, keeps at most one fetch outstanding, and hands each result
// to the report renderer and the status-bar tracker.
package poller

import (
	"context"
	"log"
	"time"

	"tabledash/report"
	"tabledash/status"
	"tabledash/statusbar"
)

const defaultInterval = time.Second

// Fetcher yields one status snapshot per call.
type Fetcher interface {
	Fetch(ctx context.Context) (status.Snapshot, error)
}

// ContentWriter receives the rendered main content.
type ContentWriter interface {
	SetContent(text string)
}

// Options tunes the loop. Zero values mean a one second interval, no request
// timeout and the standard logger.
type Options struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	Logger         *log.Logger
	// OnStats is called on the loop goroutine after every completed fetch.
	OnStats func(Stats)
}

type result struct {
	snap    status.Snapshot
	err     error
	latency time.Duration
}

// Poller owns the in-flight flag and the tracker; both are only touched from
// the goroutine running Run.
type Poller struct {
	fetcher Fetcher
	content ContentWriter
	tracker *statusbar.Tracker
	opts    Options
	logger  *log.Logger
	metrics *Metrics

	results       chan result
	inFlight      bool
	phase         status.Phase
	unknownLogged bool
}

// New wires a poller. content and tracker may be nil in tools that only
// want one side of the output.
func New(fetcher Fetcher, content ContentWriter, tracker *statusbar.Tracker, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		fetcher: fetcher,
		content: content,
		tracker: tracker,
		opts:    opts,
		logger:  logger,
		metrics: NewMetrics(),
		results: make(chan result, 1),
	}
}

// Stats returns the current poll metrics.
func (p *Poller) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return p.metrics.Snapshot()
}

// Run polls until ctx is cancelled. The first fetch starts immediately; each
// later tick starts a fetch only when none is outstanding.
func (p *Poller) Run(ctx context.Context) {
	if p == nil || p.fetcher == nil {
		return
	}
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		case res := <-p.results:
			p.complete(res)
		}
	}
}

// Once performs a single synchronous fetch and applies it, bypassing the
// ticker. It is meant for one-shot tools and must not run alongside Run.
func (p *Poller) Once(ctx context.Context) error {
	if p == nil || p.fetcher == nil {
		return nil
	}
	if p.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RequestTimeout)
		defer cancel()
	}
	p.metrics.fetches.Add(1)
	p.inFlight = true
	start := time.Now()
	snap, err := p.fetcher.Fetch(ctx)
	p.complete(result{snap: snap, err: err, latency: time.Since(start)})
	return err
}

// tick starts a fetch unless one is already outstanding. It reports whether
// a fetch was started.
func (p *Poller) tick(ctx context.Context) bool {
	if p.inFlight {
		p.metrics.skipped.Add(1)
		return false
	}
	p.inFlight = true
	p.metrics.fetches.Add(1)
	go func() {
		fetchCtx := ctx
		if p.opts.RequestTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, p.opts.RequestTimeout)
			defer cancel()
		}
		start := time.Now()
		snap, err := p.fetcher.Fetch(fetchCtx)
		// results has room for the single outstanding fetch, so this never blocks.
		p.results <- result{snap: snap, err: err, latency: time.Since(start)}
	}()
	return true
}

func (p *Poller) complete(res result) {
	p.inFlight = false
	p.metrics.latency.Observe(res.latency)

	if res.err != nil {
		p.metrics.failures.Add(1)
		if p.tracker.MarkOffline() {
			p.logger.Printf("Poller: status source offline: %v", res.err)
		}
		p.publishStats()
		return
	}

	if p.tracker != nil && !p.tracker.Online() && p.metrics.failures.Load() > 0 {
		p.logger.Printf("Poller: status source back online")
	}
	p.apply(res.snap)
	p.publishStats()
}

func (p *Poller) apply(snap status.Snapshot) {
	view := report.Render(snap)
	if view.Phase == status.PhaseUnknown {
		if !p.unknownLogged {
			p.logger.Printf("Poller: payload carried no cluster state; skipping render")
			p.unknownLogged = true
		}
	} else {
		p.unknownLogged = false
		if view.Phase != p.phase {
			p.logger.Printf("Poller: cluster is %s", view.Phase)
			p.phase = view.Phase
		}
		if p.content != nil {
			p.content.SetContent(view.Text)
		}
	}

	if snap.StatusBar != nil {
		p.tracker.Update(*snap.StatusBar)
	} else {
		p.tracker.MarkOnline()
	}
	switch {
	case snap.StatusBar != nil && snap.StatusBar.SyncQueueSize != nil:
		p.tracker.UpdateSyncQueue(*snap.StatusBar.SyncQueueSize)
	case snap.Initialized != nil:
		p.tracker.UpdateSyncQueue(status.SyncQueueSize(snap.Initialized.Peers))
	}
}

func (p *Poller) publishStats() {
	if p.opts.OnStats != nil {
		p.opts.OnStats(p.metrics.Snapshot())
	}
}
