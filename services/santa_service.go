package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"secret-santa/contract"
	"secret-santa/conversation"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/errors"
	"secret-santa/repositories"
	"sync"
)

var _ contract.EventHandler = (*SantaService)(nil)

// Renderer turns effects into deliveries.
type Renderer interface {
	RenderAll(effects []domain.Effect) ([]domain.Delivery, error)
}

// Advancer is the conversation state machine.
type Advancer interface {
	Advance(p domain.Participant, in event.Inbound) (conversation.Outcome, error)
}

// SantaService is the single entry point for inbound events.
//
// Per-participant events run under a shared lock. Admin commands read and
// rewrite many records at once, so they take it exclusively: no participant
// can save a stale copy over a bulk write-back.
type SantaService struct {
	gate         sync.RWMutex
	participants repositories.IParticipantRepository
	machine      Advancer
	admin        IAdminService
	renderer     Renderer
	log          *slog.Logger
}

func NewSantaService(
	participants repositories.IParticipantRepository,
	machine Advancer,
	admin IAdminService,
	renderer Renderer,
	log *slog.Logger) *SantaService {
	return &SantaService{
		participants: participants,
		machine:      machine,
		admin:        admin,
		renderer:     renderer,
		log:          log,
	}
}

// Handle loads the participant, applies the event, saves the record when it
// changed and renders the effects. On any error nothing must be delivered.
func (s *SantaService) Handle(ctx context.Context, in event.Inbound) ([]domain.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.log.Debug("Event received", "id", in.EventID(), "participant", in.ParticipantID(), "type", fmt.Sprintf("%T", in))

	var (
		effects []domain.Effect
		err     error
	)
	if cmd, ok := in.(event.CommandReceived); ok && cmd.Command.IsAdmin() {
		effects, err = s.handleAdmin(cmd)
	} else {
		effects, err = s.handleParticipant(in)
	}
	if err != nil {
		s.log.Error("Event aborted", "id", in.EventID(), "participant", in.ParticipantID(), "error", err)
		return nil, err
	}

	deliveries, err := s.renderer.RenderAll(effects)
	if err != nil {
		s.log.Error("Rendering failed", "id", in.EventID(), "error", err)
		return nil, err
	}
	return deliveries, nil
}

func (s *SantaService) handleAdmin(cmd event.CommandReceived) ([]domain.Effect, error) {
	if !s.admin.IsAdmin(cmd.From) {
		s.log.Debug("Admin command ignored", "participant", cmd.From, "command", cmd.Command)
		return nil, nil
	}
	s.gate.Lock()
	defer s.gate.Unlock()
	return s.admin.Execute(cmd.From, cmd.Command)
}

func (s *SantaService) handleParticipant(in event.Inbound) ([]domain.Effect, error) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	before, err := s.load(in)
	if err != nil {
		return nil, err
	}
	outcome, err := s.machine.Advance(before.Clone(), in)
	if err != nil {
		return nil, err
	}
	if outcome.Changed(before) {
		if err = s.participants.SaveParticipant(outcome.Participant); err != nil {
			return nil, err
		}
		s.log.Debug("Participant saved", "participant", before.ID, "from", before.State, "to", outcome.Participant.State)
	}
	return outcome.Effects, nil
}

// load returns the stored record, or a fresh one for an unknown identity.
// The fresh record is only written if the transition changes it.
func (s *SantaService) load(in event.Inbound) (domain.Participant, error) {
	p, err := s.participants.GetParticipant(in.ParticipantID())
	if stderrors.Is(err, errors.ErrParticipantNotFound) {
		return domain.NewParticipant(in.ParticipantID(), in.Handle(), in.OccurredAt()), nil
	}
	return p, err
}
