package runtime

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"secret-santa/errors"
	"secret-santa/moderation"
	"slices"
	"strings"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// CensoredData carries the loaded words and the dictionaries they came from.
type CensoredData struct {
	Words     []string
	Languages []string
}

// CensoredLoader reads one word per line from every .txt file of a directory.
type CensoredLoader struct {
	fs fs.FS
}

func NewCensoredLoader(f fs.FS) *CensoredLoader {
	return &CensoredLoader{fs: f}
}

// LoadAll merges every dictionary of dir, the file name being the language.
func (l *CensoredLoader) LoadAll(dir string) (*CensoredData, error) {
	entries, err := fs.ReadDir(l.fs, dir)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fs, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		// bufio handles \r\n line endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && !strings.HasPrefix(line, "#") {
				uniqueWords[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(uniqueWords))
	for w := range uniqueWords {
		words = append(words, w)
	}
	slices.Sort(words)

	return &CensoredData{Words: words, Languages: languages}, nil
}

// NewModerator builds the relay moderator from the embedded dictionaries.
// A disabled moderation yields a pass-through moderator.
func NewModerator(enabled bool, charReplacement rune, log *slog.Logger) (moderation.Moderator, error) {
	if !enabled {
		log.Info("Moderation disabled")
		return moderation.NewModerator(nil, charReplacement, log)
	}
	data, err := NewCensoredLoader(censoredFolder).LoadAll("censored")
	if err != nil {
		return moderation.Moderator{}, fmt.Errorf("censored words: %w", err)
	}
	log.Info(fmt.Sprintf("%d censored files loaded [%s]", len(data.Languages), strings.Join(data.Languages, ",")))
	log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))
	return moderation.NewModerator(data.Words, charReplacement, log)
}
