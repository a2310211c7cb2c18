// Package store holds the client-side entity stores. Each store owns one
// cached collection and reconciles it with the backend: reads are served
// from cache immediately, the first read kicks off a single background
// sync, and writes land in the cache first and reach the backend
// best-effort with an outbox for retries.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"sigmavie-commerce/internal/client/bus"
	"sigmavie-commerce/internal/client/cache"
	"sigmavie-commerce/internal/client/gateway"
	"sigmavie-commerce/pkg/logger"

	"go.uber.org/zap"
)

// SyncState tracks where a store is in its reconciliation lifecycle.
type SyncState int32

const (
	StateUnsynced SyncState = iota
	StateSyncing
	StateSynced
)

// entityStore is the shared core behind every typed store.
type entityStore[T any] struct {
	cacheKey string
	entity   string
	topic    string
	keyOf    func(T) string

	cache  cache.Store
	gw     *gateway.Gateway
	bus    *bus.Bus
	outbox *Outbox

	state atomic.Int32
	mu    sync.Mutex // serializes read-modify-write of the cached slice
}

func newEntityStore[T any](c cache.Store, g *gateway.Gateway, b *bus.Bus,
	cacheKey, entity, topic string, keyOf func(T) string) *entityStore[T] {
	return &entityStore[T]{
		cacheKey: cacheKey,
		entity:   entity,
		topic:    topic,
		keyOf:    keyOf,
		cache:    c,
		gw:       g,
		bus:      b,
		outbox:   NewOutbox(c, g, entity),
	}
}

func (s *entityStore[T]) State() SyncState {
	return SyncState(s.state.Load())
}

// List returns the cached collection right away. The first call arms one
// background sync; later calls never re-trigger it, ForceReload does.
func (s *entityStore[T]) List() []T {
	s.mu.Lock()
	items := cache.Read(s.cache, s.cacheKey, []T{})
	s.mu.Unlock()

	if s.state.CompareAndSwap(int32(StateUnsynced), int32(StateSyncing)) {
		go s.sync(context.Background())
	}
	return items
}

// sync fetches the remote collection and overwrites the cache only when the
// serialized forms differ, publishing an update event on change. The store
// ends SYNCED either way: a failed fetch means "remote unknown, cache
// stands", and retrying is the poller's job, not the read path's.
func (s *entityStore[T]) sync(ctx context.Context) {
	defer s.state.Store(int32(StateSynced))

	remote := gateway.FetchList[T](ctx, s.gw, s.entity)
	if remote == nil {
		return
	}

	fresh, err := json.Marshal(remote)
	if err != nil {
		return
	}

	s.mu.Lock()
	current, ok, _ := s.cache.Get(s.cacheKey)
	changed := !ok || !bytes.Equal(current, fresh)
	if changed {
		if err := s.cache.Set(s.cacheKey, fresh); err != nil {
			logger.Get().Warn("cache write failed",
				zap.String("entity", s.entity), zap.Error(err))
			s.mu.Unlock()
			return
		}
	}
	s.mu.Unlock()

	if changed {
		s.bus.Publish(s.topic, s.entity)
	}
}

// ForceReload bypasses the sync-once guard: it fetches synchronously,
// overwrites the cache unconditionally and reports failure, because the
// caller asked for fresh data and a stale answer won't do.
func (s *entityStore[T]) ForceReload(ctx context.Context) error {
	remote := gateway.FetchList[T](ctx, s.gw, s.entity)
	if remote == nil {
		return ErrRemoteUnavailable
	}

	s.mu.Lock()
	err := cache.Write(s.cache, s.cacheKey, remote)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.state.Store(int32(StateSynced))
	s.bus.Publish(s.topic, s.entity)
	return nil
}

// Save applies v to the cache first (replace by key, else append), then
// pushes it to the backend. A failed push lands in the outbox; the local
// copy is never rolled back.
func (s *entityStore[T]) Save(ctx context.Context, v T) gateway.Result {
	key := s.keyOf(v)

	s.mu.Lock()
	items := cache.Read(s.cache, s.cacheKey, []T{})
	replaced := false
	for i := range items {
		if s.keyOf(items[i]) == key {
			items[i] = v
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, v)
	}
	err := cache.Write(s.cache, s.cacheKey, items)
	s.mu.Unlock()
	if err != nil {
		return gateway.Result{Success: false, Message: err.Error()}
	}

	s.bus.Publish(s.topic, s.entity)

	res := s.gw.Upsert(ctx, s.entity, v)
	if !res.Success {
		if qerr := s.outbox.EnqueueUpsert(key, v); qerr != nil {
			logger.Get().Warn("outbox enqueue failed",
				zap.String("entity", s.entity), zap.Error(qerr))
		}
	}
	return res
}

// Remove drops the record locally and remotely; a failed remote delete is
// queued for retry like any other mutation.
func (s *entityStore[T]) Remove(ctx context.Context, key string) gateway.Result {
	s.mu.Lock()
	items := cache.Read(s.cache, s.cacheKey, []T{})
	kept := items[:0]
	for _, it := range items {
		if s.keyOf(it) != key {
			kept = append(kept, it)
		}
	}
	err := cache.Write(s.cache, s.cacheKey, kept)
	s.mu.Unlock()
	if err != nil {
		return gateway.Result{Success: false, Message: err.Error()}
	}

	s.bus.Publish(s.topic, s.entity)

	res := s.gw.Delete(ctx, s.entity, key)
	if !res.Success {
		if qerr := s.outbox.EnqueueDelete(key); qerr != nil {
			logger.Get().Warn("outbox enqueue failed",
				zap.String("entity", s.entity), zap.Error(qerr))
		}
	}
	return res
}

// Flush retries queued mutations.
func (s *entityStore[T]) Flush(ctx context.Context) int {
	return s.outbox.Flush(ctx)
}

// PendingCount reports how many mutations still await the backend.
func (s *entityStore[T]) PendingCount() int {
	return s.outbox.PendingCount()
}
