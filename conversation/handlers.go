package conversation

import (
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/relay"
	"strings"
)

func (m Machine) receiveName(p domain.Participant, in event.Inbound) Outcome {
	switch e := in.(type) {
	case event.TextReceived:
		name := strings.TrimSpace(e.Text)
		if name == "" {
			return m.rejectNonText(p, in)
		}
		p.Nickname = name
		p.State = domain.StateReceiveWish
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(p.ID, domain.CopyAskWish).With("name", name),
		}}
	case event.MediaReceived:
		return m.rejectNonText(p, in)
	default:
		return m.noop(p, in)
	}
}

func (m Machine) receiveWish(p domain.Participant, in event.Inbound) Outcome {
	switch e := in.(type) {
	case event.TextReceived:
		wish := strings.TrimSpace(e.Text)
		if wish == "" {
			return m.rejectNonText(p, in)
		}
		p.Wish = wish
		p.State = domain.StateReceiveCity
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(p.ID, domain.CopyAskCity).WithKeyboard(domain.KeyboardCities),
		}}
	case event.MediaReceived:
		return m.rejectNonText(p, in)
	default:
		return m.noop(p, in)
	}
}

// receiveCity ends the registration. The participant then waits in Finish
// until the distribution.
func (m Machine) receiveCity(p domain.Participant, in event.Inbound) Outcome {
	chooseAgain := Outcome{Participant: p, Effects: []domain.Effect{
		domain.NewEffect(p.ID, domain.CopyChooseCity).WithKeyboard(domain.KeyboardCities),
	}}

	switch e := in.(type) {
	case event.SignalReceived:
		if e.Signal != event.SignalSelectCity {
			return m.noop(p, in)
		}
		city, err := m.cities.Parse(e.Value)
		if err != nil {
			m.log.Warn("City selection rejected", "participant", p.ID, "error", err)
			return chooseAgain
		}
		p.City = city
		p.State = domain.StateFinish
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(p.ID, domain.CopyCityAccepted).With("city", string(city)).WithKeyboard(domain.KeyboardWaiting),
			domain.NewEffect(p.ID, domain.CopyKeepSecret),
		}}
	case event.TextReceived, event.MediaReceived:
		return chooseAgain
	default:
		return m.noop(p, in)
	}
}

func (m Machine) finish(p domain.Participant, in event.Inbound) Outcome {
	if e, ok := in.(event.SignalReceived); ok && e.Signal == event.SignalChangeWish {
		p.State = domain.StateChangeWishList
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(p.ID, domain.CopyShowWish).With("wish", p.Wish),
		}}
	}
	return m.noop(p, in)
}

func (m Machine) changeWishList(p domain.Participant, in event.Inbound) Outcome {
	switch e := in.(type) {
	case event.TextReceived:
		wish := strings.TrimSpace(e.Text)
		if wish == "" {
			return m.rejectNonText(p, in)
		}
		p.Wish = wish
		p.State = domain.StateFinish
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(p.ID, domain.CopyWishChanged).WithKeyboard(domain.KeyboardWaiting),
		}}
	case event.MediaReceived:
		return m.rejectNonText(p, in)
	default:
		return m.noop(p, in)
	}
}

// distributed opens one of the two relay sub-flows and replays its history.
func (m Machine) distributed(p domain.Participant, in event.Inbound) (Outcome, error) {
	e, ok := in.(event.SignalReceived)
	if !ok {
		return m.noop(p, in), nil
	}
	switch e.Signal {
	case event.SignalOpenChildChat:
		return m.openChat(p, relay.ToRecipient)
	case event.SignalOpenSantaChat:
		return m.openChat(p, relay.ToGiver)
	default:
		return m.noop(p, in), nil
	}
}

func (m Machine) openChat(p domain.Participant, dir relay.Direction) (Outcome, error) {
	thread, found, err := m.relay.History(p, dir)
	if err != nil {
		return Outcome{Participant: p}, err
	}

	history, empty, opened, next := domain.CopyChildHistory, domain.CopyChildHistoryEmpty, domain.CopyChildChatOpened, domain.StateChildChat
	if dir == relay.ToGiver {
		history, empty, opened, next = domain.CopySantaHistory, domain.CopySantaHistoryEmpty, domain.CopySantaChatOpened, domain.StateSantaChat
	}

	first := domain.NewEffect(p.ID, empty)
	if found {
		first = domain.NewEffect(p.ID, history).With("history", thread.Text)
	}
	p.State = next
	return Outcome{Participant: p, Effects: []domain.Effect{
		first.WithKeyboard(domain.KeyboardCloseChat),
		domain.NewEffect(p.ID, opened),
	}}, nil
}

// chat relays text to the counterpart until the close signal.
func (m Machine) chat(p domain.Participant, in event.Inbound, dir relay.Direction) (Outcome, error) {
	switch e := in.(type) {
	case event.SignalReceived:
		if e.Signal != event.SignalCloseChat {
			return m.noop(p, in), nil
		}
		p.State = domain.StateDistributed
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(p.ID, domain.CopyChatClosed).WithKeyboard(domain.KeyboardChatMenu),
		}}, nil
	case event.TextReceived:
		if strings.TrimSpace(e.Text) == "" {
			return m.rejectNonText(p, in), nil
		}
		relayed, err := m.relay.Relay(p, dir, e.Text)
		if err != nil {
			return Outcome{Participant: p}, err
		}
		incoming := domain.CopyFromSanta
		if dir == relay.ToGiver {
			incoming = domain.CopyFromChild
		}
		return Outcome{Participant: p, Effects: []domain.Effect{
			domain.NewEffect(relayed.Target, incoming).With("text", relayed.Text),
		}}, nil
	case event.MediaReceived:
		return m.rejectNonText(p, in), nil
	default:
		return m.noop(p, in), nil
	}
}
