package ytdlp

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the download flavor.
type Mode string

const (
	ModeVideo Mode = "video"
	ModeAudio Mode = "audio"
)

// DefaultOutputTemplate names downloads by title when no template is configured.
const DefaultOutputTemplate = "%(title)s.%(ext)s"

// metadataSplitPattern asks the downloader to derive artist and title tags
// from the media title. Titles that do not follow "artist - title" simply tag
// poorly; no escaping or repair is attempted.
const metadataSplitPattern = "%(artist)s - %(title)s"

// ErrAudioConversion is returned when conversion parameters are combined with
// an audio request. Conversion applies to video requests only.
var ErrAudioConversion = errors.New("conversion applies to video requests only")

// Conversion describes the transcode forwarded to the downloader's ffmpeg
// post-processing hook.
type Conversion struct {
	Container    string
	VideoBitrate string
	Resolution   string
	StartTime    string
	Duration     string
	Strip        string
}

// Request describes one downloader invocation.
type Request struct {
	URL            string
	Mode           Mode
	OutputDir      string
	OutputTemplate string
	ArchivePath    string
	WholePlaylist  bool
	Verbose        bool
	AudioFormat    string
	SubtitleLangs  []string
	Conversion     *Conversion
	ExtraArgs      []string
}

// IsPlaylistURL reports whether the URL looks like a whole playlist rather
// than a single item. Matching is a plain substring check; anything subtler
// belongs to the downloader.
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, "list=") || strings.Contains(url, "/playlist")
}

// BuildArgs assembles the downloader argument list for a request. Arguments
// are discrete flag/value pairs; nothing is ever concatenated into a shell
// string. The URL is always the final argument.
func BuildArgs(req Request) ([]string, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, errors.New("url required")
	}
	if req.Mode != ModeVideo && req.Mode != ModeAudio {
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}
	if req.OutputDir == "" {
		return nil, errors.New("output directory required")
	}
	if req.Conversion != nil && req.Mode == ModeAudio {
		return nil, ErrAudioConversion
	}

	args := []string{"--newline"}

	if req.ArchivePath != "" {
		args = append(args, "--download-archive", req.ArchivePath)
	}
	if req.WholePlaylist {
		args = append(args, "--yes-playlist")
	}

	args = append(args, "-o", outputTemplate(req, url))

	switch req.Mode {
	case ModeAudio:
		format := strings.TrimSpace(req.AudioFormat)
		if format == "" {
			return nil, errors.New("audio format required")
		}
		args = append(args,
			"-x",
			"--audio-format", format,
			"--audio-quality", "0",
			"--parse-metadata", "title:"+metadataSplitPattern,
			"--add-metadata",
		)
	case ModeVideo:
		if len(req.SubtitleLangs) > 0 {
			args = append(args, "--write-subs", "--sub-langs", strings.Join(req.SubtitleLangs, ","))
		}
		if req.Conversion != nil {
			conv, err := conversionArgs(req.Conversion)
			if err != nil {
				return nil, err
			}
			args = append(args, conv...)
		}
	}

	if req.Verbose {
		args = append(args, "--verbose")
	}

	args = append(args, req.ExtraArgs...)
	args = append(args, url)
	return args, nil
}

// outputTemplate builds the -o value. Playlist downloads get a
// %(playlist_title)s path segment so every playlist lands in its own folder
// under the mode root.
func outputTemplate(req Request, url string) string {
	template := strings.TrimSpace(req.OutputTemplate)
	if template == "" {
		template = DefaultOutputTemplate
	}
	if req.WholePlaylist || IsPlaylistURL(url) {
		return filepath.Join(req.OutputDir, "%(playlist_title)s", template)
	}
	return filepath.Join(req.OutputDir, template)
}

func conversionArgs(conv *Conversion) ([]string, error) {
	container := strings.TrimSpace(conv.Container)
	if container == "" {
		return nil, errors.New("conversion container required")
	}

	args := []string{"--recode-video", container}

	ffmpeg := make([]string, 0, 9)
	if conv.VideoBitrate != "" {
		ffmpeg = append(ffmpeg, "-b:v", conv.VideoBitrate)
	}
	if conv.Resolution != "" {
		ffmpeg = append(ffmpeg, "-s", conv.Resolution)
	}
	if conv.StartTime != "" {
		ffmpeg = append(ffmpeg, "-ss", conv.StartTime)
	}
	if conv.Duration != "" {
		ffmpeg = append(ffmpeg, "-t", conv.Duration)
	}
	switch conv.Strip {
	case "":
	case "audio":
		ffmpeg = append(ffmpeg, "-an")
	case "video":
		ffmpeg = append(ffmpeg, "-vn")
	default:
		return nil, fmt.Errorf("unknown strip value %q", conv.Strip)
	}
	if len(ffmpeg) > 0 {
		args = append(args, "--postprocessor-args", "ffmpeg:"+strings.Join(ffmpeg, " "))
	}
	return args, nil
}
