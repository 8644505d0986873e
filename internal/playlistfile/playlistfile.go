package playlistfile

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Section headers. They must appear exactly once each, video before audio.
const (
	VideoHeader = "[Video Playlists]"
	AudioHeader = "[Audio Playlists]"
)

//go:embed template.txt
var template string

// Lists holds the parsed playlist file contents in file order.
type Lists struct {
	Video []string
	Audio []string
}

// Total returns the number of entries across both sections.
func (l Lists) Total() int {
	return len(l.Video) + len(l.Audio)
}

type section int

const (
	sectionNone section = iota
	sectionVideo
	sectionAudio
)

// Parse reads the sectioned playlist format: the video header, its entries,
// the audio header, its entries. Blank lines and lines starting with # are
// skipped everywhere. An entry belongs to the most recent header. Structural
// problems (missing, duplicate, or out-of-order headers, entries before the
// first header) are reported as errors naming the offending line rather than
// guessed around.
func Parse(r io.Reader) (Lists, error) {
	lists := Lists{Video: []string{}, Audio: []string{}}
	current := sectionNone

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch line {
		case VideoHeader:
			if current != sectionNone {
				return Lists{}, fmt.Errorf("line %d: duplicate %s header", lineNo, VideoHeader)
			}
			current = sectionVideo
			continue
		case AudioHeader:
			switch current {
			case sectionNone:
				return Lists{}, fmt.Errorf("line %d: %s must come after %s", lineNo, AudioHeader, VideoHeader)
			case sectionAudio:
				return Lists{}, fmt.Errorf("line %d: duplicate %s header", lineNo, AudioHeader)
			}
			current = sectionAudio
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			return Lists{}, fmt.Errorf("line %d: unknown section header %s", lineNo, line)
		}

		switch current {
		case sectionVideo:
			lists.Video = append(lists.Video, line)
		case sectionAudio:
			lists.Audio = append(lists.Audio, line)
		default:
			return Lists{}, fmt.Errorf("line %d: entry %q appears before the %s header", lineNo, line, VideoHeader)
		}
	}
	if err := scanner.Err(); err != nil {
		return Lists{}, fmt.Errorf("read playlist file: %w", err)
	}

	switch current {
	case sectionNone:
		return Lists{}, fmt.Errorf("missing %s header", VideoHeader)
	case sectionVideo:
		return Lists{}, fmt.Errorf("missing %s header", AudioHeader)
	}
	return lists, nil
}

// Load reads and parses the playlist file at path.
func Load(path string) (Lists, error) {
	file, err := os.Open(path)
	if err != nil {
		return Lists{}, fmt.Errorf("open playlist file: %w", err)
	}
	defer file.Close()

	lists, err := Parse(file)
	if err != nil {
		return Lists{}, fmt.Errorf("%s: %w", path, err)
	}
	return lists, nil
}

// Ensure writes the commented template to path when no file exists there.
// It reports whether a new file was created.
func Ensure(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat playlist file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create playlist directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return false, fmt.Errorf("write playlist template: %w", err)
	}
	return true, nil
}

// LoadOrCreate loads the playlist file, writing the template first when the
// file is missing. A freshly created file parses to two empty sections.
func LoadOrCreate(path string) (Lists, bool, error) {
	created, err := Ensure(path)
	if err != nil {
		return Lists{}, false, err
	}
	lists, err := Load(path)
	if err != nil {
		return Lists{}, created, err
	}
	return lists, created, nil
}
