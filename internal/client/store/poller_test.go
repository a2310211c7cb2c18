package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPollerTicksUntilCancelled(t *testing.T) {
	var ticks atomic.Int32
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) {
		ticks.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return ticks.Load() >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}

	settled := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, settled, ticks.Load())
}
