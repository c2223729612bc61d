package service

import (
	"context"
	"sync"
	"testing"
	"time"

	hm "heartbeat_monitor"
)

type countingMonitor struct {
	mu    sync.Mutex
	calls int
	last  RunParams
}

func (m *countingMonitor) Run(ctx context.Context, p RunParams) ([]hm.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.last = p
	return nil, nil
}

func (m *countingMonitor) snapshot() (int, RunParams) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.last
}

func TestSweeperRun_TicksUntilCanceled(t *testing.T) {
	t.Parallel()

	monitor := &countingMonitor{}
	s := NewSweeperService(monitor)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	// Wait until at least two passes happened, then cancel.
	deadline := time.After(2 * time.Second)
	for {
		calls, _ := monitor.snapshot()
		if calls >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sweeper never ran twice")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}

	// Full-log pass with configured defaults: no inline batch, no
	// window, no overrides.
	_, last := monitor.snapshot()
	if last.Events != nil || !last.From.IsZero() || !last.To.IsZero() || last.IntervalSeconds != 0 {
		t.Fatalf("unexpected sweep params: %+v", last)
	}
}
