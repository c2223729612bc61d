package service

import (
	"context"
	"time"
)

// SweeperService periodically re-runs gap detection over the stored
// heartbeat log. Alert storage is idempotent, so a pass that finds
// nothing new is a no-op.
type SweeperService struct {
	monitor Monitor
}

// NewSweeperService returns a sweeper driving the given monitor.
func NewSweeperService(monitor Monitor) *SweeperService {
	return &SweeperService{monitor: monitor}
}

// Run ticks at the given interval until ctx is canceled. Each tick
// runs one detection pass over the full stored log with the configured
// defaults. Failures are skipped; the next tick retries.
func (s *SweeperService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.monitor.Run(ctx, RunParams{})
		}
	}
}
