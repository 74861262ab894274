package console

import (
	"fmt"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"strconv"
	"strings"
	"time"
)

const (
	signalPrefix = "!"
	mediaPrefix  = "~"
)

// Parse turns one input line into an inbound event.
func Parse(line string, at time.Time) (event.Inbound, error) {
	line = strings.TrimSpace(line)
	sender, payload, _ := strings.Cut(line, " ")
	if sender == "" {
		return nil, fmt.Errorf("empty line")
	}

	rawID, handle, _ := strings.Cut(sender, "@")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("participant id %q: %w", rawID, err)
	}
	header := event.NewHeader(domain.ParticipantID(id), handle, at)

	switch {
	case strings.HasPrefix(payload, "/"):
		cmd, err := event.ParseCommand(payload)
		if err != nil {
			return nil, err
		}
		return event.CommandReceived{Header: header, Command: cmd}, nil
	case strings.HasPrefix(payload, signalPrefix):
		name, value, _ := strings.Cut(strings.TrimPrefix(payload, signalPrefix), " ")
		sig, err := event.ParseSignal(name)
		if err != nil {
			return nil, err
		}
		return event.SignalReceived{Header: header, Signal: sig, Value: strings.TrimSpace(value)}, nil
	case strings.HasPrefix(payload, mediaPrefix):
		return event.MediaReceived{Header: header, Data: []byte(strings.TrimPrefix(payload, mediaPrefix))}, nil
	default:
		// multi-line text is typed with literal \n
		return event.TextReceived{Header: header, Text: strings.ReplaceAll(payload, `\n`, "\n")}, nil
	}
}
