package domain

import (
	"fmt"
	"secret-santa/errors"
)

// State is the conversational position of a participant.
// The set is closed: every handler switch must cover all values.
type State uint8

const (
	StateStart State = iota
	StateReceiveName
	StateReceiveWish
	StateReceiveCity
	StateChildChat
	StateSantaChat
	StateChangeWishList
	// StateFinish means registered and waiting for the distribution.
	StateFinish
	StateDistributed
)

var stateNames = [...]string{
	StateStart:          "Start",
	StateReceiveName:    "ReceiveName",
	StateReceiveWish:    "ReceiveWish",
	StateReceiveCity:    "ReceiveCity",
	StateChildChat:      "ChildChat",
	StateSantaChat:      "SantaChat",
	StateChangeWishList: "ChangeWishList",
	StateFinish:         "Finish",
	StateDistributed:    "Distributed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ParseState is the inverse of String.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return StateStart, fmt.Errorf("%w: %q", errors.ErrUnknownState, name)
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// InChat reports whether the participant is inside one of the relay sub-flows.
func (s State) InChat() bool {
	return s == StateChildChat || s == StateSantaChat
}
