package fetch

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"reel/internal/logging"
	"reel/internal/ytdlp"
)

// Progress consumes decoded downloader progress for one request.
type Progress interface {
	Update(update ytdlp.ProgressUpdate)
	Done()
}

// ProgressFactory creates the progress sink for a request.
type ProgressFactory func(mode ytdlp.Mode, url string) Progress

// defaultProgressFactory renders a terminal progress bar when stderr is a
// TTY and falls back to sampled debug logs otherwise.
func defaultProgressFactory(logger *slog.Logger) ProgressFactory {
	return func(mode ytdlp.Mode, url string) Progress {
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			return newBarProgress(os.Stderr)
		}
		return newLogProgress(logger.With(
			logging.String(logging.FieldMode, string(mode)),
			logging.String(logging.FieldURL, url),
		))
	}
}

// barProgress renders one progress bar per downloader phase. Phases without
// percentages (ExtractAudio, Merger) print a single status line instead.
type barProgress struct {
	out   io.Writer
	bar   *progressbar.ProgressBar
	phase string
}

func newBarProgress(out io.Writer) *barProgress {
	return &barProgress{out: out}
}

func (b *barProgress) Update(update ytdlp.ProgressUpdate) {
	if update.Phase != b.phase {
		b.finishBar()
		b.phase = update.Phase
		if update.Percent < 0 {
			fmt.Fprintf(b.out, "[%s] %s\n", update.Phase, update.Message)
			return
		}
		b.bar = progressbar.NewOptions64(100,
			progressbar.OptionSetWriter(b.out),
			progressbar.OptionSetDescription("["+update.Phase+"]"),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	if b.bar != nil && update.Percent >= 0 {
		_ = b.bar.Set64(int64(update.Percent))
	}
}

func (b *barProgress) Done() {
	b.finishBar()
	b.phase = ""
}

func (b *barProgress) finishBar() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	b.bar = nil
}

// logProgress writes sampled progress lines to the debug log so non-TTY runs
// stay observable without flooding the log file.
type logProgress struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func newLogProgress(logger *slog.Logger) *logProgress {
	return &logProgress{
		logger:  logger,
		sampler: logging.NewProgressSampler(0),
	}
}

func (l *logProgress) Update(update ytdlp.ProgressUpdate) {
	if !l.sampler.ShouldLog(update.Percent, update.Phase) {
		return
	}
	attrs := []logging.Attr{logging.String("phase", update.Phase)}
	if update.Percent >= 0 {
		attrs = append(attrs, logging.Float64("percent", update.Percent))
	} else if update.Message != "" {
		attrs = append(attrs, logging.String("message", update.Message))
	}
	l.logger.Debug("download progress", logging.Args(attrs...)...)
}

func (l *logProgress) Done() {
	l.sampler.Reset()
}
