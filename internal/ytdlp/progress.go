package ytdlp

import (
	"strconv"
	"strings"
)

// ProgressUpdate is one decoded downloader status line. Percent is negative
// when the line carries no percentage, which is common for post-processing
// phases such as ExtractAudio.
type ProgressUpdate struct {
	Phase   string
	Percent float64
	Message string
}

// ParseProgress decodes a downloader output line. The downloader is run with
// --newline so every update arrives on its own line in the form
// "[phase] message"; download lines carry a percentage as the first token of
// the message. Lines without a bracketed phase are ignored.
func ParseProgress(line string) (ProgressUpdate, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		return ProgressUpdate{}, false
	}
	end := strings.Index(trimmed, "]")
	if end < 0 {
		return ProgressUpdate{}, false
	}

	update := ProgressUpdate{
		Phase:   trimmed[1:end],
		Percent: -1,
		Message: strings.TrimSpace(trimmed[end+1:]),
	}
	if update.Phase == "" {
		return ProgressUpdate{}, false
	}

	if fields := strings.Fields(update.Message); len(fields) > 0 {
		if percent, ok := parsePercent(fields[0]); ok {
			update.Percent = percent
		}
	}
	return update, true
}

func parsePercent(token string) (float64, bool) {
	if !strings.HasSuffix(token, "%") {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(token, "%"), 64)
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value, true
}
