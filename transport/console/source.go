package console

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"secret-santa/contract"
	"secret-santa/domain/event"
	"time"
)

var _ contract.Worker = (*Source)(nil)

type Submitter interface {
	Submit(ctx context.Context, in event.Inbound) error
}

// Source reads events line by line and submits them to the engine.
type Source struct {
	lines  *bufio.Scanner
	engine Submitter
	now    func() time.Time
	log    *slog.Logger
}

func NewSource(r io.Reader, engine Submitter, log *slog.Logger) *Source {
	return &Source{lines: bufio.NewScanner(r), engine: engine, now: time.Now, log: log}
}

// Run returns nil at end of input so the supervisor does not restart it.
func (s *Source) Run(ctx context.Context) error {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(lines)
		for s.lines.Scan() {
			select {
			case lines <- s.lines.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- s.lines.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errs:
					return err
				default:
					return nil
				}
			}
			if line == "" {
				continue
			}
			in, err := Parse(line, s.now())
			if err != nil {
				s.log.Warn("Unreadable line", "line", line, "error", err)
				continue
			}
			if err = s.engine.Submit(ctx, in); err != nil {
				return err
			}
		}
	}
}
