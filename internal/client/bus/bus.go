// Package bus carries entity-update notifications between the stores and
// whatever renders them. Delivery is best-effort: a subscriber that cannot
// keep up misses events, and the next one brings it current again because
// consumers re-read the cache rather than apply deltas.
package bus

import (
	"sync"
	"time"
)

// Topics mirror the backend's websocket event names.
const (
	TopicProducts     = "products_update"
	TopicCustomers    = "customers_update"
	TopicOrders       = "orders_update"
	TopicCategories   = "categories_update"
	TopicSettings     = "settings_update"
	TopicStockEntries = "stock_entries_update"
)

type Event struct {
	Topic   string
	Payload any
	At      time.Time
}

type subscriber struct {
	ch chan Event
}

// Bus is a topic-keyed in-process pub/sub hub.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]*subscriber
}

func New() *Bus {
	return &Bus{subs: make(map[string][]*subscriber)}
}

// Subscribe registers for topic. The returned cancel must be called when the
// consumer goes away; events published afterwards are dropped.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, 16)}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s == sub {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				close(sub.ch)
				return
			}
		}
	}
	return sub.ch, cancel
}

// Publish fans the event out to every subscriber of topic without blocking.
func (b *Bus) Publish(topic string, payload any) {
	ev := Event{Topic: topic, Payload: payload, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs[topic] {
		select {
		case sub.ch <- ev:
		default:
			// Slow subscriber drops this event.
		}
	}
}
