// Package event defines what the transport hands to the core.
// Inbound is a closed sum type: TextReceived, SignalReceived,
// CommandReceived and MediaReceived are its only variants.
package event

import (
	"fmt"
	"secret-santa/domain"
	"secret-santa/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Inbound interface {
	EventID() uuid.UUID
	ParticipantID() domain.ParticipantID
	// Handle is the transport-side name of the sender, may be empty.
	Handle() string
	OccurredAt() time.Time
	inbound()
}

// Header carries the fields shared by every variant.
type Header struct {
	ID     uuid.UUID
	From   domain.ParticipantID
	Sender string
	At     time.Time
}

func NewHeader(from domain.ParticipantID, sender string, at time.Time) Header {
	return Header{ID: uuid.New(), From: from, Sender: sender, At: at.UTC()}
}

func (h Header) EventID() uuid.UUID                  { return h.ID }
func (h Header) ParticipantID() domain.ParticipantID { return h.From }
func (h Header) Handle() string                      { return h.Sender }
func (h Header) OccurredAt() time.Time               { return h.At }
func (Header) inbound()                              {}

type TextReceived struct {
	Header
	Text string
}

type SignalReceived struct {
	Header
	Signal Signal
	// Value is the payload of parametrised signals, e.g. the chosen city.
	Value string
}

type CommandReceived struct {
	Header
	Command Command
}

// MediaReceived is any non-text message (sticker, photo, voice).
type MediaReceived struct {
	Header
	Data []byte
}

type Signal string

const (
	SignalOpenChildChat Signal = "open_child_chat"
	SignalOpenSantaChat Signal = "open_santa_chat"
	SignalCloseChat     Signal = "close_chat"
	SignalChangeWish    Signal = "change_wish"
	SignalSelectCity    Signal = "select_city"
)

var signals = []Signal{
	SignalOpenChildChat,
	SignalOpenSantaChat,
	SignalCloseChat,
	SignalChangeWish,
	SignalSelectCity,
}

func ParseSignal(s string) (Signal, error) {
	for _, sig := range signals {
		if string(sig) == s {
			return sig, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownSignal, s)
}

type Command string

const (
	CommandStart      Command = "start"
	CommandHelp       Command = "help"
	CommandList       Command = "list"
	CommandDistribute Command = "distribute"
	CommandNotify     Command = "notify"
)

var commands = []Command{CommandStart, CommandHelp, CommandList, CommandDistribute, CommandNotify}

// IsAdmin reports whether the command is reserved to the allow-list.
func (c Command) IsAdmin() bool {
	return c == CommandList || c == CommandDistribute || c == CommandNotify
}

// ParseCommand accepts "/start", "start", "/start@botname" in any case.
func ParseCommand(s string) (Command, error) {
	name := strings.TrimPrefix(strings.TrimSpace(s), "/")
	if i := strings.IndexAny(name, "@ "); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(name)
	for _, c := range commands {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownCommand, s)
}
