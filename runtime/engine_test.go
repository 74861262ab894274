package runtime_test

import (
	"context"
	"log/slog"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/mocks"
	"secret-santa/runtime"
	"secret-santa/runtime/workers"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var at = time.Date(2026, 12, 24, 20, 0, 0, 0, time.UTC)

// recordingSink keeps deliveries per recipient.
type recordingSink struct {
	mu   sync.Mutex
	sent map[domain.ParticipantID][]string
}

func (s *recordingSink) Deliver(_ context.Context, d domain.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[d.To] = append(s.sent[d.To], d.Text)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, texts := range s.sent {
		n += len(texts)
	}
	return n
}

func TestShardFor(t *testing.T) {
	req := require.New(t)
	req.Equal(0, runtime.ShardFor(8, 4))
	req.Equal(3, runtime.ShardFor(7, 4))
	req.Equal(1, runtime.ShardFor(-3, 4))
	req.Equal(0, runtime.ShardFor(-1001234567890, 1))
}

func TestEngine_Keeps_Participant_Order(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockEventHandler(ctrl)
	sink := &recordingSink{sent: map[domain.ParticipantID][]string{}}

	// echo handler
	handler.EXPECT().Handle(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in event.Inbound) ([]domain.Delivery, error) {
			return []domain.Delivery{{To: in.ParticipantID(), Text: in.(event.TextReceived).Text}}, nil
		}).AnyTimes()

	engine := runtime.NewEngine(slog.Default(), workers.NewSupervisor(slog.Default(), 10*time.Millisecond),
		handler, sink, 3, 16, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		req.NoError(engine.Start(ctx))
		close(done)
	}()

	texts := []string{"a", "b", "c", "d", "e"}
	for _, s := range texts {
		for id := domain.ParticipantID(1); id <= 6; id++ {
			req.NoError(engine.Submit(ctx, event.TextReceived{Header: event.NewHeader(id, "", at), Text: s}))
		}
	}

	req.Eventually(func() bool { return sink.count() == 30 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	for id := domain.ParticipantID(1); id <= 6; id++ {
		req.Equal(texts, sink.sent[id])
	}
}

func TestEngine_Submit_Honours_Context(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	engine := runtime.NewEngine(slog.Default(), mocks.NewMockISupervisor(ctrl),
		mocks.NewMockEventHandler(ctrl), mocks.NewMockDeliverySink(ctrl), 1, 0, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := engine.Submit(ctx, event.TextReceived{Header: event.NewHeader(1, "", at), Text: "nobody listens"})
	req.ErrorIs(err, context.DeadlineExceeded)
}

func TestEngine_Start_Registers_One_Worker_Per_Shard(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	supervisor := mocks.NewMockISupervisor(ctrl)

	supervisor.EXPECT().Add(gomock.Any()).Return(supervisor).Times(4)
	supervisor.EXPECT().Run(gomock.Any()).Times(1)

	engine := runtime.NewEngine(slog.Default(), supervisor,
		mocks.NewMockEventHandler(ctrl), mocks.NewMockDeliverySink(ctrl), 4, 1, time.Second)
	req.NoError(engine.Start(context.Background()))
	req.Error(engine.Start(context.Background()))
}
