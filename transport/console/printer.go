package console

import (
	"context"
	"fmt"
	"io"
	"secret-santa/contract"
	"secret-santa/domain"
	"strings"
	"sync"

	"github.com/gookit/color"
)

var _ contract.DeliverySink = (*Printer)(nil)

// Printer writes deliveries to w. Writes are serialized across workers.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	colours bool
}

func NewPrinter(w io.Writer, colours bool) *Printer {
	return &Printer{w: w, colours: colours}
}

func (p *Printer) Deliver(ctx context.Context, d domain.Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(p.paint(fmt.Sprintf("→ %s", d.To), color.OpBold, color.FgGreen))
	sb.WriteString("\n")
	for _, line := range strings.Split(d.Text, "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	for _, row := range d.Buttons {
		labels := make([]string, 0, len(row))
		for _, b := range row {
			hint := signalPrefix + b.Signal
			if b.Value != "" {
				hint += " " + b.Value
			}
			labels = append(labels, fmt.Sprintf("[%s] %s", b.Label, p.paint(hint, color.FgCyan)))
		}
		sb.WriteString("  ")
		sb.WriteString(strings.Join(labels, "  "))
		sb.WriteString("\n")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, sb.String())
	return err
}

func (p *Printer) paint(s string, colours ...color.Color) string {
	if !p.colours {
		return s
	}
	return color.New(colours...).Render(s)
}
