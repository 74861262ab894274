package services

import (
	"context"
	"fmt"
	"secret-santa/conversation"
	"secret-santa/copytext"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/errors"
	"secret-santa/mocks"
	"secret-santa/moderation"
	"secret-santa/relay"
	"secret-santa/repositories"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func newCatalog(t *testing.T) *copytext.Catalog {
	catalog, err := copytext.Default(cities)
	require.NoError(t, err)
	return catalog
}

func TestSantaService_Store_Failure_Delivers_Nothing(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIParticipantRepository(ctrl)
	machine := conversation.NewMachine(nil, cities, testLog)
	svc := NewSantaService(repo, machine, NewAdminService(repo, cities, nil, testLog), newCatalog(t), testLog)
	boom := fmt.Errorf("disk full")

	repo.EXPECT().GetParticipant(domain.ParticipantID(1)).Return(domain.Participant{}, errors.ErrParticipantNotFound)
	repo.EXPECT().SaveParticipant(gomock.Any()).Return(boom)

	deliveries, err := svc.Handle(context.Background(),
		event.CommandReceived{Header: event.NewHeader(1, "alice", at), Command: event.CommandStart})
	req.ErrorIs(err, boom)
	req.Empty(deliveries)
}

func TestSantaService_Load_Failure_Delivers_Nothing(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIParticipantRepository(ctrl)
	machine := conversation.NewMachine(nil, cities, testLog)
	svc := NewSantaService(repo, machine, NewAdminService(repo, cities, nil, testLog), newCatalog(t), testLog)
	boom := fmt.Errorf("io error")

	repo.EXPECT().GetParticipant(domain.ParticipantID(1)).Return(domain.Participant{}, boom)
	repo.EXPECT().SaveParticipant(gomock.Any()).Times(0)

	deliveries, err := svc.Handle(context.Background(),
		event.TextReceived{Header: event.NewHeader(1, "alice", at), Text: "hi"})
	req.ErrorIs(err, boom)
	req.Empty(deliveries)
}

func TestSantaService_Unchanged_Record_Is_Not_Written(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIParticipantRepository(ctrl)
	machine := conversation.NewMachine(nil, cities, testLog)
	svc := NewSantaService(repo, machine, NewAdminService(repo, cities, nil, testLog), newCatalog(t), testLog)

	repo.EXPECT().GetParticipant(domain.ParticipantID(1)).Return(domain.Participant{}, errors.ErrParticipantNotFound)
	repo.EXPECT().SaveParticipant(gomock.Any()).Times(0)

	deliveries, err := svc.Handle(context.Background(),
		event.TextReceived{Header: event.NewHeader(1, "alice", at), Text: "hello?"})
	req.NoError(err)
	req.Empty(deliveries)
}

func TestSantaService_Non_Admin_Command_Is_Ignored(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIParticipantRepository(ctrl)
	machine := conversation.NewMachine(nil, cities, testLog)
	svc := NewSantaService(repo, machine, NewAdminService(repo, cities, []domain.ParticipantID{admin}, testLog), newCatalog(t), testLog)

	deliveries, err := svc.Handle(context.Background(),
		event.CommandReceived{Header: event.NewHeader(1, "alice", at), Command: event.CommandDistribute})
	req.NoError(err)
	req.Empty(deliveries)
}

func TestSantaService_Cancelled_Context(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIParticipantRepository(ctrl)
	machine := conversation.NewMachine(nil, cities, testLog)
	svc := NewSantaService(repo, machine, NewAdminService(repo, cities, nil, testLog), newCatalog(t), testLog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Handle(ctx, event.TextReceived{Header: event.NewHeader(1, "alice", at), Text: "hi"})
	req.ErrorIs(err, context.Canceled)
}

// SantaSuite drives the whole exchange through Handle on a real Badger store.
type SantaSuite struct {
	suite.Suite
	db           *badger.DB
	participants repositories.ParticipantRepository
	svc          *SantaService
}

func TestSantaSuite(t *testing.T) {
	suite.Run(t, new(SantaSuite))
}

func (s *SantaSuite) SetupTest() {
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db

	log := testLog
	s.participants = repositories.NewParticipantRepository(db, log)
	threads := repositories.NewThreadRepository(db)
	moderator, err := moderation.NewModerator([]string{"spoiler"}, '*', log)
	s.Require().NoError(err)
	router := relay.NewRouter(s.participants, threads, moderator, log, func() time.Time { return at })
	machine := conversation.NewMachine(router, cities, log)
	adminService := NewAdminService(s.participants, cities, []domain.ParticipantID{admin}, log)
	s.svc = NewSantaService(s.participants, machine, adminService, newCatalog(s.T()), log)
}

func (s *SantaSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *SantaSuite) send(in event.Inbound) []domain.Delivery {
	deliveries, err := s.svc.Handle(context.Background(), in)
	s.Require().NoError(err)
	return deliveries
}

func (s *SantaSuite) text(id domain.ParticipantID, text string) []domain.Delivery {
	return s.send(event.TextReceived{Header: event.NewHeader(id, "", at), Text: text})
}

func (s *SantaSuite) signal(id domain.ParticipantID, sig event.Signal, value string) []domain.Delivery {
	return s.send(event.SignalReceived{Header: event.NewHeader(id, "", at), Signal: sig, Value: value})
}

func (s *SantaSuite) command(id domain.ParticipantID, cmd event.Command) []domain.Delivery {
	return s.send(event.CommandReceived{Header: event.NewHeader(id, "", at), Command: cmd})
}

func (s *SantaSuite) register(id domain.ParticipantID, name, wish string, city domain.City) {
	s.Len(s.command(id, event.CommandStart), 2)
	s.text(id, name)
	s.text(id, wish)
	s.signal(id, event.SignalSelectCity, string(city))

	p, err := s.participants.GetParticipant(id)
	s.Require().NoError(err)
	s.Equal(domain.StateFinish, p.State)
}

func (s *SantaSuite) TestRegistration_Is_Persisted() {
	deliveries := s.command(1, event.CommandStart)
	s.Require().Len(deliveries, 2)
	s.Equal(domain.ParticipantID(1), deliveries[0].To)

	deliveries = s.text(1, "Alice")
	s.Contains(deliveries[0].Text, "Nice to meet you, Alice!")

	deliveries = s.text(1, "A scarf")
	s.Len(deliveries[0].Buttons, 2)

	deliveries = s.signal(1, event.SignalSelectCity, "Moscow")
	s.Require().Len(deliveries, 2)
	s.Contains(deliveries[0].Text, "Your city is Moscow.")
	s.Equal(domain.KeyboardWaiting, deliveries[0].Keyboard)

	p, err := s.participants.GetParticipant(1)
	s.Require().NoError(err)
	s.Equal("Alice", p.Nickname)
	s.Equal("1", p.Username)
	s.Equal("A scarf", p.Wish)
	s.Equal(domain.City("Moscow"), p.City)

	deliveries = s.command(1, event.CommandStart)
	s.Equal("Sly one! Only one gift per person.", deliveries[0].Text)
}

func (s *SantaSuite) TestFull_Exchange() {
	s.register(1, "Alice", "A scarf", "Moscow")
	s.register(2, "Bob", "A book", "Moscow")
	s.register(3, "Carol", "Tea", "Izhevsk")
	s.register(4, "Dan", "Socks", "Izhevsk")

	deliveries := s.command(admin, event.CommandDistribute)
	s.Require().Len(deliveries, 5)
	s.Equal("Roles assigned, participants: 4", deliveries[0].Text)

	deliveries = s.command(admin, event.CommandNotify)
	s.Require().Len(deliveries, 5)
	revealed := lo.SliceToMap(deliveries[:4], func(d domain.Delivery) (domain.ParticipantID, string) { return d.To, d.Text })
	s.Contains(revealed[1], "Your giftee is Carol.")
	s.Contains(revealed[3], "Your giftee is Bob.")
	s.Equal("Notified participants: 4", deliveries[4].Text)

	// Alice writes to Carol, Carol answers through her Santa chat.
	s.signal(1, event.SignalOpenChildChat, "")
	deliveries = s.text(1, "Do you like green tea? No spoiler please")
	s.Require().Len(deliveries, 1)
	s.Equal(domain.ParticipantID(3), deliveries[0].To)
	s.Equal("New message from your Santa:\nDo you like green tea? No ******* please", deliveries[0].Text)

	deliveries = s.signal(3, event.SignalOpenSantaChat, "")
	s.Require().Len(deliveries, 2)
	s.Equal("Santa: Do you like green tea? No ******* please", deliveries[0].Text)
	deliveries = s.text(3, "Yes!")
	s.Equal(domain.ParticipantID(1), deliveries[0].To)
	s.Equal("New message from your giftee:\nYes!", deliveries[0].Text)

	deliveries = s.signal(1, event.SignalCloseChat, "")
	s.Equal(domain.KeyboardChatMenu, deliveries[0].Keyboard)
	deliveries = s.signal(1, event.SignalOpenChildChat, "")
	s.Equal("You: Do you like green tea? No ******* please\nYour giftee: Yes!", deliveries[0].Text)

	p, err := s.participants.GetParticipant(1)
	s.Require().NoError(err)
	s.Equal(domain.StateChildChat, p.State)
}

func (s *SantaSuite) TestList_Shows_Everyone() {
	s.register(1, "Alice", "A scarf", "Moscow")
	s.command(2, event.CommandStart)

	deliveries := s.command(admin, event.CommandList)
	s.Require().Len(deliveries, 1)
	s.True(strings.HasPrefix(deliveries[0].Text, "Participants: 2"))
	s.Contains(deliveries[0].Text, "Alice")
	s.Contains(deliveries[0].Text, "ReceiveName")
}

func (s *SantaSuite) TestDistribute_Unequal_Groups() {
	s.register(1, "Alice", "A scarf", "Moscow")

	deliveries := s.command(admin, event.CommandDistribute)
	s.Require().Len(deliveries, 1)
	s.Equal(admin, deliveries[0].To)
	s.Contains(deliveries[0].Text, "Cannot distribute")

	p, err := s.participants.GetParticipant(1)
	s.Require().NoError(err)
	s.Nil(p.Recipient)
}
