// Package runtime turns the event handler into a running service.
// It owns channels, sharding and supervision, never business rules.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"secret-santa/contract"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/runtime/workers"
	"sync"
	"time"
)

type Engine struct {
	mu          sync.Mutex
	log         *slog.Logger
	supervisor  contract.ISupervisor
	handler     contract.EventHandler
	sink        contract.DeliverySink
	shards      []chan event.Inbound
	sinkTimeout time.Duration
	started     bool
}

func NewEngine(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	handler contract.EventHandler,
	sink contract.DeliverySink,
	numWorkers, bufferSize int,
	sinkTimeout time.Duration) *Engine {
	if numWorkers < 1 {
		numWorkers = 1
	}
	shards := make([]chan event.Inbound, numWorkers)
	for i := range shards {
		shards[i] = make(chan event.Inbound, bufferSize)
	}
	return &Engine{
		log:         log,
		supervisor:  supervisor,
		handler:     handler,
		sink:        sink,
		shards:      shards,
		sinkTimeout: sinkTimeout,
	}
}

// ShardFor maps a participant to a worker. Ids may be negative.
func ShardFor(id domain.ParticipantID, n int) int {
	s := int(int64(id) % int64(n))
	if s < 0 {
		s += n
	}
	return s
}

// Submit queues an event on the shard of its participant. It blocks while
// the shard is full, until ctx is done.
func (e *Engine) Submit(ctx context.Context, in event.Inbound) error {
	shard := e.shards[ShardFor(in.ParticipantID(), len(e.shards))]
	select {
	case shard <- in:
		return nil
	case <-ctx.Done():
		e.log.Warn("Event not queued", "id", in.EventID(), "participant", in.ParticipantID(), "error", ctx.Err())
		return ctx.Err()
	}
}

// Start registers one worker per shard and runs the supervisor.
// It blocks until ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("engine already started")
	}
	e.started = true
	for i, ch := range e.shards {
		e.supervisor.Add(workers.NewEventWorker(i, ch, e.handler, e.sink, e.sinkTimeout, e.log))
	}
	e.mu.Unlock()

	e.log.Info("Starting engine", "workers", len(e.shards))
	e.supervisor.Run(ctx)
	return nil
}

func (e *Engine) Stop() {
	e.log.Info("Requesting engine shutdown")
	e.supervisor.Stop()
}
