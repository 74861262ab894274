package workers

import (
	"context"
	"log/slog"
	"secret-santa/contract"
	"secret-santa/domain/event"
	"time"
)

var _ contract.Worker = (*EventWorker)(nil)

// EventWorker consumes one shard of the inbound events.
// Every event of a participant lands on the same shard, so a participant's
// events are handled one at a time and in arrival order.
type EventWorker struct {
	Shard       int
	events      chan event.Inbound
	handler     contract.EventHandler
	sink        contract.DeliverySink
	sinkTimeout time.Duration
	log         *slog.Logger
}

func NewEventWorker(
	shard int,
	events chan event.Inbound,
	handler contract.EventHandler,
	sink contract.DeliverySink,
	sinkTimeout time.Duration,
	log *slog.Logger) *EventWorker {
	return &EventWorker{
		Shard:       shard,
		events:      events,
		handler:     handler,
		sink:        sink,
		sinkTimeout: sinkTimeout,
		log:         log.With("shard", shard),
	}
}

func (w *EventWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.process(ctx, evt)
		}
	}
}

// process handles one event. Deliveries are only sent once the handler
// succeeded, so a failed event is invisible to participants.
func (w *EventWorker) process(ctx context.Context, evt event.Inbound) {
	deliveries, err := w.handler.Handle(ctx, evt)
	if err != nil {
		w.log.Warn("Event dropped", "id", evt.EventID(), "participant", evt.ParticipantID(), "error", err)
		return
	}
	for _, d := range deliveries {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		err := w.sink.Deliver(sinkCtx, d)
		cancel()
		if err != nil {
			w.log.Error("Delivery failed", "id", evt.EventID(), "to", d.To, "error", err)
		}
	}
}
