// Package notify delivers session lifecycle events to a sink without
// blocking the session stores that emit them.
package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes session events to a fixed set of workers using
// consistent hashing on the identity id, guaranteeing per-identity event
// ordering. It implements ports.SessionEventSink itself, so session stores
// can emit straight into it.
type Dispatcher struct {
	workers []chan domain.SessionEvent
	sink    ports.SessionEventSink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers
// feeding the given sink. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.SessionEventSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SessionEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for delivery. It never blocks the caller: when
// the shard's buffer is full the event is dropped with a warning, since
// auditing must not stall an auth operation.
func (d *Dispatcher) Record(_ context.Context, event domain.SessionEvent) error {
	select {
	case d.workers[d.shardIndex(event.IdentityID)] <- event:
	default:
		d.log.Warn().
			Str("identity_id", event.IdentityID).
			Str("event", string(event.Type)).
			Msg("session event dropped: dispatcher buffer full")
	}
	return nil
}

// shardIndex maps an identity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(identityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identityID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Record(ctx, event); err != nil {
				d.log.Error().Err(err).
					Int("worker_id", id).
					Str("identity_id", event.IdentityID).
					Str("event", string(event.Type)).
					Msg("session event delivery failed")
			}
		}
	}
}
