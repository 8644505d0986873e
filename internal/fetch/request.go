package fetch

import (
	"errors"
	"fmt"
	"strings"

	"reel/internal/config"
	"reel/internal/ytdlp"
)

// Options carries per-invocation overrides for one download request.
// Anything left zero falls back to the resolved configuration.
type Options struct {
	URL           string
	Mode          ytdlp.Mode
	OutputDir     string
	Convert       bool
	Conversion    *ytdlp.Conversion
	WholePlaylist bool
	NoArchive     bool
	Verbose       bool
	ExtraArgs     []string
}

// buildRequest merges options with configuration into a downloader request.
// Invalid combinations are rejected here, before any history row is written
// or subprocess started.
func (r *Runner) buildRequest(opts Options) (ytdlp.Request, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return ytdlp.Request{}, errors.New("url required")
	}
	if opts.Mode != ytdlp.ModeVideo && opts.Mode != ytdlp.ModeAudio {
		return ytdlp.Request{}, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	if opts.Convert && opts.Mode == ytdlp.ModeAudio {
		return ytdlp.Request{}, ytdlp.ErrAudioConversion
	}

	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		if opts.Mode == ytdlp.ModeAudio {
			outputDir = r.cfg.Paths.AudioDir
		} else {
			outputDir = r.cfg.Paths.VideoDir
		}
	} else {
		expanded, err := config.ExpandPath(outputDir)
		if err != nil {
			return ytdlp.Request{}, fmt.Errorf("output dir: %w", err)
		}
		outputDir = expanded
	}

	extraArgs := make([]string, 0, len(r.cfg.Downloader.ExtraArgs)+len(opts.ExtraArgs))
	extraArgs = append(extraArgs, r.cfg.Downloader.ExtraArgs...)
	extraArgs = append(extraArgs, opts.ExtraArgs...)

	req := ytdlp.Request{
		URL:            url,
		Mode:           opts.Mode,
		OutputDir:      outputDir,
		OutputTemplate: r.cfg.Downloader.OutputTemplate,
		WholePlaylist:  opts.WholePlaylist || r.cfg.Downloader.WholePlaylist,
		Verbose:        opts.Verbose || r.cfg.Downloader.Verbose,
		ExtraArgs:      extraArgs,
	}

	if r.cfg.Downloader.UseArchive && !opts.NoArchive {
		if opts.Mode == ytdlp.ModeAudio {
			req.ArchivePath = r.cfg.AudioArchivePath()
		} else {
			req.ArchivePath = r.cfg.VideoArchivePath()
		}
	}

	switch opts.Mode {
	case ytdlp.ModeAudio:
		req.AudioFormat = r.cfg.Downloader.AudioFormat
	case ytdlp.ModeVideo:
		if len(r.cfg.Downloader.SubtitleLangs) > 0 {
			req.SubtitleLangs = append([]string{}, r.cfg.Downloader.SubtitleLangs...)
		}
		if opts.Convert {
			req.Conversion = r.conversion(opts.Conversion)
		}
	}

	// Surfaces argument-level problems (bad strip value, missing audio
	// format) without starting anything.
	if _, err := ytdlp.BuildArgs(req); err != nil {
		return ytdlp.Request{}, err
	}
	return req, nil
}

func (r *Runner) conversion(override *ytdlp.Conversion) *ytdlp.Conversion {
	if override != nil {
		conv := *override
		if strings.TrimSpace(conv.Container) == "" {
			conv.Container = r.cfg.Transcoder.Container
		}
		return &conv
	}
	return &ytdlp.Conversion{
		Container:    r.cfg.Transcoder.Container,
		VideoBitrate: r.cfg.Transcoder.VideoBitrate,
		Resolution:   r.cfg.Transcoder.Resolution,
		StartTime:    r.cfg.Transcoder.StartTime,
		Duration:     r.cfg.Transcoder.Duration,
		Strip:        r.cfg.Transcoder.Strip,
	}
}
