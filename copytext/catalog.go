// Package copytext renders effects into the text participants read.
// The catalogue is data: the conversation core only names entries.
package copytext

import (
	_ "embed"
	"fmt"
	"secret-santa/domain"
	"secret-santa/domain/event"
	"secret-santa/errors"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type button struct {
	Label  string `yaml:"label"`
	Signal string `yaml:"signal"`
	Value  string `yaml:"value"`
}

type document struct {
	Words     map[string]string     `yaml:"words"`
	Messages  map[string]string     `yaml:"messages"`
	Keyboards map[string][][]button `yaml:"keyboards"`
}

type Catalog struct {
	words     map[domain.Copy]string
	messages  map[domain.Copy]*template.Template
	keyboards map[domain.Keyboard][][]domain.Button
}

var keyboardNames = map[string]domain.Keyboard{
	"waiting":    domain.KeyboardWaiting,
	"chat_menu":  domain.KeyboardChatMenu,
	"close_chat": domain.KeyboardCloseChat,
}

// Default loads the embedded catalogue.
func Default(cities domain.CityGroups) (*Catalog, error) {
	return Load(defaultCatalog, cities)
}

// Load parses a YAML catalogue. The city keyboard is built from the groups.
func Load(data []byte, cities domain.CityGroups) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalogue: %w", err)
	}

	c := &Catalog{
		words:     make(map[domain.Copy]string, len(doc.Words)),
		messages:  make(map[domain.Copy]*template.Template, len(doc.Messages)),
		keyboards: make(map[domain.Keyboard][][]domain.Button, len(doc.Keyboards)+1),
	}
	for k, v := range doc.Words {
		c.words[domain.Copy(k)] = v
	}

	funcs := template.FuncMap{
		"word":   c.word,
		"thread": c.thread,
	}
	for k, body := range doc.Messages {
		tmpl, err := template.New(k).Funcs(funcs).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("catalogue entry %q: %w", k, err)
		}
		c.messages[domain.Copy(k)] = tmpl
	}

	for name, rows := range doc.Keyboards {
		kb, ok := keyboardNames[name]
		if !ok {
			return nil, fmt.Errorf("catalogue keyboard %q is unknown", name)
		}
		parsed, err := toButtons(rows)
		if err != nil {
			return nil, fmt.Errorf("catalogue keyboard %q: %w", name, err)
		}
		c.keyboards[kb] = parsed
	}
	c.keyboards[domain.KeyboardCities] = lo.Map(cities.All(), func(city domain.City, _ int) []domain.Button {
		return []domain.Button{{Label: string(city), Signal: string(event.SignalSelectCity), Value: string(city)}}
	})
	return c, nil
}

func toButtons(rows [][]button) ([][]domain.Button, error) {
	res := make([][]domain.Button, 0, len(rows))
	for _, row := range rows {
		line := make([]domain.Button, 0, len(row))
		for _, b := range row {
			if _, err := event.ParseSignal(b.Signal); err != nil {
				return nil, err
			}
			line = append(line, domain.Button{Label: b.Label, Signal: b.Signal, Value: b.Value})
		}
		res = append(res, line)
	}
	return res, nil
}

// Render resolves the copy entry and keyboard of one effect.
func (c *Catalog) Render(e domain.Effect) (domain.Delivery, error) {
	tmpl, ok := c.messages[e.Copy]
	if !ok {
		return domain.Delivery{}, fmt.Errorf("%w: %q", errors.ErrUnknownCopy, e.Copy)
	}
	args := e.Args
	if args == nil {
		args = map[string]string{}
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, args); err != nil {
		return domain.Delivery{}, fmt.Errorf("render %q: %w", e.Copy, err)
	}
	return domain.Delivery{
		To:       e.To,
		Text:     sb.String(),
		Keyboard: e.Keyboard,
		Buttons:  c.keyboards[e.Keyboard],
	}, nil
}

// RenderAll keeps the order of the effects.
func (c *Catalog) RenderAll(effects []domain.Effect) ([]domain.Delivery, error) {
	res := make([]domain.Delivery, 0, len(effects))
	for _, e := range effects {
		d, err := c.Render(e)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, nil
}

func (c *Catalog) word(key string) (string, error) {
	w, ok := c.words[domain.Copy(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownCopy, key)
	}
	return w, nil
}

// thread substitutes the role placeholders of a stored history.
func (c *Catalog) thread(history, santaKey, childKey string) (string, error) {
	santa, err := c.word(santaKey)
	if err != nil {
		return "", err
	}
	child, err := c.word(childKey)
	if err != nil {
		return "", err
	}
	return domain.Thread{Text: history}.Render(santa, child), nil
}
