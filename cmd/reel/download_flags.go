package main

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"reel/internal/fetch"
	"reel/internal/ytdlp"
)

// downloadFlags carries the root command's download surface. Mode flags pick
// the action; the rest override resolved configuration for a single run.
type downloadFlags struct {
	video     bool
	audio     bool
	playlists bool
	convert   bool

	url           string
	outputDir     string
	extraArgs     []string
	wholePlaylist bool
	noArchive     bool

	container    string
	videoBitrate string
	resolution   string
	startTime    string
	duration     string
	strip        string
}

func (f *downloadFlags) register(flags *pflag.FlagSet) {
	flags.BoolVar(&f.video, "video", false, "Download video")
	flags.BoolVar(&f.audio, "audio", false, "Download audio only")
	flags.BoolVar(&f.playlists, "playlists", false, "Download every playlist listed in the playlist file")
	flags.BoolVar(&f.convert, "convert", false, "Convert the downloaded video")

	flags.StringVar(&f.url, "url", "", "Media URL to download")
	flags.StringVar(&f.outputDir, "output-dir", "", "Destination directory (defaults to the configured directory for the mode)")
	flags.StringSliceVar(&f.extraArgs, "extra", nil, "Extra downloader argument (repeatable)")
	flags.BoolVar(&f.wholePlaylist, "whole-playlist", false, "Download the whole playlist a URL belongs to")
	flags.BoolVar(&f.noArchive, "no-archive", false, "Skip the download archive for this run")

	flags.StringVar(&f.container, "container", "", "Conversion container, e.g. mp4 or mkv")
	flags.StringVar(&f.videoBitrate, "video-bitrate", "", "Conversion video bitrate, e.g. 2000k")
	flags.StringVar(&f.resolution, "resolution", "", "Conversion resolution, e.g. 1280x720")
	flags.StringVar(&f.startTime, "start-time", "", "Conversion clip start, e.g. 00:01:30")
	flags.StringVar(&f.duration, "duration", "", "Conversion clip duration, e.g. 00:00:45")
	flags.StringVar(&f.strip, "strip", "", "Conversion stream to drop: audio or video")
}

// validate rejects flag combinations that have no single meaning. It runs
// before configuration is loaded so a rejected invocation does no work at
// all.
func (f *downloadFlags) validate() error {
	url := strings.TrimSpace(f.url)
	switch {
	case f.video && f.audio:
		return errors.New("specify only one of --video or --audio")
	case f.playlists && f.video:
		return errors.New("--playlists cannot be combined with --video")
	case f.playlists && f.audio:
		return errors.New("--playlists cannot be combined with --audio")
	case f.playlists && url != "":
		return errors.New("--playlists cannot be combined with --url")
	case f.convert && f.audio:
		return errors.New("--convert applies to video downloads only")
	case f.convert && !f.video:
		return errors.New("--convert requires --video")
	case url != "" && !f.video && !f.audio:
		return errors.New("--url requires --video or --audio")
	case f.video && url == "":
		return errors.New("--video requires --url")
	case f.audio && url == "":
		return errors.New("--audio requires --url")
	case !f.convert && f.conversionRequested():
		return errors.New("conversion parameters require --convert")
	}
	return nil
}

func (f *downloadFlags) actionRequested() bool {
	return f.video || f.audio || f.playlists
}

func (f *downloadFlags) conversionRequested() bool {
	return f.container != "" || f.videoBitrate != "" || f.resolution != "" ||
		f.startTime != "" || f.duration != "" || f.strip != ""
}

func (f *downloadFlags) fetchOptions(verbose bool) fetch.Options {
	opts := fetch.Options{
		URL:           strings.TrimSpace(f.url),
		Mode:          ytdlp.ModeVideo,
		OutputDir:     f.outputDir,
		Convert:       f.convert,
		WholePlaylist: f.wholePlaylist,
		NoArchive:     f.noArchive,
		Verbose:       verbose,
		ExtraArgs:     f.extraArgs,
	}
	if f.audio {
		opts.Mode = ytdlp.ModeAudio
	}
	if f.convert {
		opts.Conversion = f.conversionOverride()
	}
	return opts
}

// conversionOverride returns the conversion parameters given on the command
// line, or nil when none were so the configured transcoder defaults apply.
func (f *downloadFlags) conversionOverride() *ytdlp.Conversion {
	conv := ytdlp.Conversion{
		Container:    strings.TrimSpace(f.container),
		VideoBitrate: strings.TrimSpace(f.videoBitrate),
		Resolution:   strings.TrimSpace(f.resolution),
		StartTime:    strings.TrimSpace(f.startTime),
		Duration:     strings.TrimSpace(f.duration),
		Strip:        strings.TrimSpace(f.strip),
	}
	if conv == (ytdlp.Conversion{}) {
		return nil
	}
	return &conv
}
