package store

import (
	"context"
	"time"
)

// DefaultPollInterval is how often the back-office customer list re-syncs.
const DefaultPollInterval = 30 * time.Second

// Poller re-runs a store's sync on an interval. It is the recovery path for
// everything the read path's sync-once guard leaves behind: missed events,
// failed first syncs, queued outbox mutations.
type Poller struct {
	interval time.Duration
	tick     func(ctx context.Context)
}

func NewPoller(interval time.Duration, tick func(ctx context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, tick: tick}
}

// Run blocks until ctx is done, firing the tick on every interval.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.tick(ctx)
		}
	}
}

// Resync builds the standard poller tick for a store: force a reload, then
// drain the outbox while the backend is clearly reachable.
func Resync(s interface {
	ForceReload(ctx context.Context) error
	Flush(ctx context.Context) int
}) func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := s.ForceReload(ctx); err != nil {
			return
		}
		s.Flush(ctx)
	}
}
