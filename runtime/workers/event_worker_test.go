package workers

import (
	"context"
	"fmt"
	"log/slog"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/mocks"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var at = time.Date(2026, 12, 24, 20, 0, 0, 0, time.UTC)

func text(id domain.ParticipantID, s string) event.TextReceived {
	return event.TextReceived{Header: event.NewHeader(id, "", at), Text: s}
}

func TestEventWorker_Delivers_In_Order(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockEventHandler(ctrl)
	sink := mocks.NewMockDeliverySink(ctrl)

	events := make(chan event.Inbound, 2)
	events <- text(1, "first")
	events <- text(1, "second")
	close(events)

	handler.EXPECT().Handle(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in event.Inbound) ([]domain.Delivery, error) {
			return []domain.Delivery{{To: 2, Text: in.(event.TextReceived).Text}}, nil
		}).Times(2)

	var delivered []string
	sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, d domain.Delivery) error {
			_, hasDeadline := ctx.Deadline()
			req.True(hasDeadline)
			delivered = append(delivered, d.Text)
			return nil
		}).Times(2)

	w := NewEventWorker(0, events, handler, sink, time.Second, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(w.Run(context.Background()))
	req.Equal([]string{"first", "second"}, delivered)
}

func TestEventWorker_Failed_Event_Delivers_Nothing(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockEventHandler(ctrl)
	sink := mocks.NewMockDeliverySink(ctrl)

	events := make(chan event.Inbound, 2)
	events <- text(1, "broken")
	events <- text(1, "fine")
	close(events)

	gomock.InOrder(
		handler.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("disk full")),
		handler.EXPECT().Handle(gomock.Any(), gomock.Any()).Return([]domain.Delivery{{To: 1, Text: "ok"}}, nil),
	)
	sink.EXPECT().Deliver(gomock.Any(), domain.Delivery{To: 1, Text: "ok"}).Return(nil).Times(1)

	w := NewEventWorker(0, events, handler, sink, time.Second, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(w.Run(context.Background()))
}

func TestEventWorker_Sink_Failure_Does_Not_Stop_The_Worker(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockEventHandler(ctrl)
	sink := mocks.NewMockDeliverySink(ctrl)

	events := make(chan event.Inbound, 1)
	events <- text(1, "hello")
	close(events)

	handler.EXPECT().Handle(gomock.Any(), gomock.Any()).
		Return([]domain.Delivery{{To: 1, Text: "a"}, {To: 2, Text: "b"}}, nil)
	sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded).Times(2)

	w := NewEventWorker(0, events, handler, sink, time.Millisecond, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(w.Run(context.Background()))
}

func TestEventWorker_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewEventWorker(0, make(chan event.Inbound), mocks.NewMockEventHandler(ctrl), mocks.NewMockDeliverySink(ctrl), time.Second, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.ErrorIs(w.Run(ctx), context.Canceled)
}
