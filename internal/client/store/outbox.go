package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"sigmavie-commerce/internal/client/cache"
	"sigmavie-commerce/internal/client/gateway"
	"sigmavie-commerce/internal/metrics"
)

// ErrRemoteUnavailable is returned by synchronous operations that needed the
// backend and could not reach it.
var ErrRemoteUnavailable = errors.New("remote unavailable")

const (
	opUpsert = "upsert"
	opDelete = "delete"
)

type pendingOp struct {
	Op         string          `json:"op"`
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Outbox persists mutations that could not reach the backend so they survive
// restarts and can be replayed once connectivity returns. Queue order is
// replay order.
type Outbox struct {
	cache  cache.Store
	gw     *gateway.Gateway
	entity string

	mu sync.Mutex
	// backoff between attempts inside one Flush pass, swappable in tests
	sleep func(time.Duration)
}

func NewOutbox(c cache.Store, g *gateway.Gateway, entity string) *Outbox {
	return &Outbox{cache: c, gw: g, entity: entity, sleep: time.Sleep}
}

func (o *Outbox) key() string {
	return "pending_" + o.entity
}

func (o *Outbox) load() []pendingOp {
	return cache.Read(o.cache, o.key(), []pendingOp{})
}

func (o *Outbox) store(ops []pendingOp) error {
	return cache.Write(o.cache, o.key(), ops)
}

// EnqueueUpsert records a failed upsert for later replay. A newer upsert of
// the same key supersedes the queued one.
func (o *Outbox) EnqueueUpsert(key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	ops := o.load()
	for i := range ops {
		if ops[i].Op == opUpsert && ops[i].Key == key {
			ops[i].Payload = raw
			ops[i].EnqueuedAt = time.Now()
			return o.store(ops)
		}
	}
	ops = append(ops, pendingOp{
		Op:         opUpsert,
		Key:        key,
		Payload:    raw,
		EnqueuedAt: time.Now(),
	})
	return o.store(ops)
}

// EnqueueDelete records a failed delete. Any queued upsert of the same key
// is dropped, the delete wins.
func (o *Outbox) EnqueueDelete(key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	ops := o.load()
	kept := ops[:0]
	for _, op := range ops {
		if op.Op == opUpsert && op.Key == key {
			continue
		}
		kept = append(kept, op)
	}
	kept = append(kept, pendingOp{
		Op:         opDelete,
		Key:        key,
		EnqueuedAt: time.Now(),
	})
	return o.store(kept)
}

func (o *Outbox) PendingCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.load())
}

// Flush replays queued mutations in order and returns how many succeeded.
// A mutation that fails again stays queued with its attempt count bumped;
// replay pauses briefly before each retried op so a flapping backend is not
// hammered.
func (o *Outbox) Flush(ctx context.Context) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	ops := o.load()
	if len(ops) == 0 {
		return 0
	}

	flushed := 0
	var remaining []pendingOp
	for _, op := range ops {
		if ctx.Err() != nil {
			remaining = append(remaining, op)
			continue
		}
		if op.Attempts > 0 {
			o.sleep(backoff(op.Attempts))
		}
		metrics.SyncRetries.Inc()

		var res gateway.Result
		switch op.Op {
		case opDelete:
			res = o.gw.Delete(ctx, o.entity, op.Key)
		default:
			res = o.gw.Upsert(ctx, o.entity, json.RawMessage(op.Payload))
		}

		if res.Success {
			flushed++
			continue
		}
		op.Attempts++
		remaining = append(remaining, op)
	}

	if remaining == nil {
		remaining = []pendingOp{}
	}
	o.store(remaining)
	return flushed
}

func backoff(attempts int) time.Duration {
	// Cap before shifting; a large attempt count would overflow the shift.
	if attempts > 5 {
		return 30 * time.Second
	}
	return time.Second << (attempts - 1)
}
