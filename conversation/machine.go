// Package conversation is the per-participant state machine.
//
// Advance takes the stored participant and one inbound event and returns the
// participant to persist together with the effects to deliver. Handlers
// never persist participants and never build display text: they name copy
// entries and let the caller render and store.
package conversation

import (
	"fmt"
	"log/slog"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/errors"
	"secret-santa/relay"

	"github.com/gabriel-vasile/mimetype"
)

// Relayer is the part of the relay router the machine needs.
type Relayer interface {
	Relay(from domain.Participant, dir relay.Direction, text string) (relay.Relayed, error)
	History(from domain.Participant, dir relay.Direction) (domain.Thread, bool, error)
}

// Outcome is the result of one transition.
type Outcome struct {
	Participant domain.Participant
	Effects     []domain.Effect
}

// Changed reports whether the participant record must be written back.
func (o Outcome) Changed(before domain.Participant) bool {
	return !o.Participant.Equal(before)
}

type Machine struct {
	relay  Relayer
	cities domain.CityGroups
	log    *slog.Logger
}

func NewMachine(relayer Relayer, cities domain.CityGroups, log *slog.Logger) Machine {
	return Machine{relay: relayer, cities: cities, log: log}
}

// Advance applies one inbound event. Commands are accepted in every state;
// everything else is dispatched on the current state.
func (m Machine) Advance(p domain.Participant, in event.Inbound) (Outcome, error) {
	if cmd, ok := in.(event.CommandReceived); ok {
		return m.command(p, cmd)
	}

	switch p.State {
	case domain.StateStart:
		return m.noop(p, in), nil
	case domain.StateReceiveName:
		return m.receiveName(p, in), nil
	case domain.StateReceiveWish:
		return m.receiveWish(p, in), nil
	case domain.StateReceiveCity:
		return m.receiveCity(p, in), nil
	case domain.StateFinish:
		return m.finish(p, in), nil
	case domain.StateChangeWishList:
		return m.changeWishList(p, in), nil
	case domain.StateDistributed:
		return m.distributed(p, in)
	case domain.StateChildChat:
		return m.chat(p, in, relay.ToRecipient)
	case domain.StateSantaChat:
		return m.chat(p, in, relay.ToGiver)
	default:
		return Outcome{Participant: p}, fmt.Errorf("%w: %d", errors.ErrUnknownState, p.State)
	}
}

func (m Machine) command(p domain.Participant, cmd event.CommandReceived) (Outcome, error) {
	switch cmd.Command {
	case event.CommandStart:
		if p.HasWish() {
			return reply(p, domain.CopyRepeatRegistration), nil
		}
		p.State = domain.StateReceiveName
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(p.ID, domain.CopyWelcome),
			domain.NewEffect(p.ID, domain.CopyAskName),
		}}, nil
	case event.CommandHelp:
		return reply(p, domain.CopyHelp), nil
	default:
		return m.noop(p, cmd), nil
	}
}

// noop covers every event with no handler in the current state.
func (m Machine) noop(p domain.Participant, in event.Inbound) Outcome {
	m.log.Debug("Event ignored in current state",
		"participant", p.ID, "state", p.State, "event", fmt.Sprintf("%T", in), "id", in.EventID())
	return Outcome{Participant: p}
}

// rejectNonText asks for plain text again without changing state.
func (m Machine) rejectNonText(p domain.Participant, in event.Inbound) Outcome {
	if media, ok := in.(event.MediaReceived); ok {
		m.log.Debug("Non-text payload rejected",
			"participant", p.ID, "state", p.State, "mime", mimetype.Detect(media.Data).String())
	}
	return reply(p, domain.CopyPleaseSendText)
}

func reply(p domain.Participant, c domain.Copy) Outcome {
	return Outcome{Participant: p, Effects: []domain.Effect{domain.NewEffect(p.ID, c)}}
}
