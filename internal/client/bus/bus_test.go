package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()

	ch1, cancel1 := b.Subscribe(TopicProducts)
	defer cancel1()
	ch2, cancel2 := b.Subscribe(TopicProducts)
	defer cancel2()

	b.Publish(TopicProducts, "reloaded")

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, TopicProducts, ev.Topic)
			assert.Equal(t, "reloaded", ev.Payload)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New()

	ch, cancel := b.Subscribe(TopicOrders)
	defer cancel()

	b.Publish(TopicProducts, "other topic")

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()

	ch, cancel := b.Subscribe(TopicProducts)
	cancel()

	b.Publish(TopicProducts, "late")

	// Channel is closed by cancel; no event must have arrived first.
	ev, open := <-ch
	require.False(t, open, "expected closed channel, got %+v", ev)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := New()

	ch, cancel := b.Subscribe(TopicProducts)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			b.Publish(TopicProducts, i)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// The buffer holds the earliest events; the overflow was dropped.
	assert.Equal(t, 0, (<-ch).Payload)
}
