package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// Spaces are dropped before matching, so dictionary words must not hide
// inside common words.
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := NewModerator([]string{"spoiler", "grinch", "сволочь"}, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{"Word inside a sentence", "No spoiler please", "No ******* please", []string{"spoiler"}},
		{"Uppercase", "You GRINCH", "You ******", []string{"grinch"}},
		{"Leet speak", "sp0iler alert", "******* alert", []string{"spoiler"}},
		{"Split by a space", "spoi ler here", "******** here", []string{"spoiler"}},
		{"Cyrillic with trailing punctuation", "Ты сволочь!", "Ты *******!", []string{"сволочь"}},
		{"Nothing to censor", "Merry Christmas, Santa", "Merry Christmas, Santa", nil},
		{"Empty string", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content)
			req.Equal(tt.words, words)
		})
	}
}

func TestModerator_Ignores_Noise_Only_Words(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	mod, err := NewModerator([]string{"...", ",,,", "", "grinch"}, replacementChar, log)
	req.NoError(err)

	content, words := mod.Censor("The grinch is back")
	req.Equal("The ****** is back", content)
	req.Equal([]string{"grinch"}, words)

	content, words = mod.Censor("Hello ...")
	req.Equal("Hello ...", content)
	req.Nil(words)
}

func TestModerator_Empty_Dictionary_Passes_Through(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator(nil, replacementChar, slog.Default())
	req.NoError(err)

	verdict := mod.Review("no spoiler at all")
	req.Equal("no spoiler at all", verdict.Text)
	req.Empty(verdict.CensoredWords)
}

func TestModerator_Review_Detects_Language(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"grinch"}, replacementChar, slog.Default())
	req.NoError(err)

	verdict := mod.Review("I would really love a warm woollen scarf, do not be a grinch about it this year")
	req.Equal("I would really love a warm woollen scarf, do not be a ****** about it this year", verdict.Text)
	req.Equal([]string{"grinch"}, verdict.CensoredWords)
	req.Equal("en", verdict.Lang)
}
