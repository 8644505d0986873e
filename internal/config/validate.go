package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// audioFormats are the extraction formats the downloader accepts for
// --audio-format.
var audioFormats = map[string]struct{}{
	"best":   {},
	"aac":    {},
	"alac":   {},
	"flac":   {},
	"m4a":    {},
	"mp3":    {},
	"opus":   {},
	"vorbis": {},
	"wav":    {},
}

// containers are the targets the downloader accepts for --recode-video.
var containers = map[string]struct{}{
	"avi":  {},
	"flv":  {},
	"gif":  {},
	"mkv":  {},
	"mov":  {},
	"mp4":  {},
	"webm": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownloader(); err != nil {
		return err
	}
	if err := c.validateTranscoder(); err != nil {
		return err
	}
	if err := c.validateRelease(); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"notifications.request_timeout": c.Notifications.RequestTimeout,
		"release.timeout_seconds":       c.Release.TimeoutSeconds,
	})
}

func (c *Config) validatePaths() error {
	if c.Paths.VideoDir == "" {
		return errors.New("paths.video_dir must be set")
	}
	if c.Paths.AudioDir == "" {
		return errors.New("paths.audio_dir must be set")
	}
	if c.Paths.VideoDir == c.Paths.AudioDir {
		return errors.New("paths.video_dir and paths.audio_dir must differ")
	}
	return nil
}

func (c *Config) validateDownloader() error {
	if c.Downloader.Binary == "" {
		return errors.New("downloader.binary must be set")
	}
	if _, ok := audioFormats[c.Downloader.AudioFormat]; !ok {
		return fmt.Errorf("downloader.audio_format: unsupported format %q", c.Downloader.AudioFormat)
	}
	for _, lang := range c.Downloader.SubtitleLangs {
		if lang == "all" {
			continue
		}
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("downloader.subtitle_langs: invalid language tag %q", lang)
		}
	}
	if c.Downloader.TimeoutSeconds < 0 {
		return errors.New("downloader.timeout_seconds must be >= 0 (0 disables the limit)")
	}
	return nil
}

func (c *Config) validateTranscoder() error {
	if _, ok := containers[c.Transcoder.Container]; !ok {
		return fmt.Errorf("transcoder.container: unsupported container %q", c.Transcoder.Container)
	}
	switch c.Transcoder.Strip {
	case "", "audio", "video":
	default:
		return fmt.Errorf("transcoder.strip must be empty, %q, or %q", "audio", "video")
	}
	if c.Transcoder.Resolution != "" {
		if err := validateResolution(c.Transcoder.Resolution); err != nil {
			return fmt.Errorf("transcoder.resolution: %w", err)
		}
	}
	return nil
}

func (c *Config) validateRelease() error {
	if c.Release.ManifestURL == "" {
		return errors.New("release.manifest_url must be set")
	}
	if !strings.HasPrefix(c.Release.ManifestURL, "http://") && !strings.HasPrefix(c.Release.ManifestURL, "https://") {
		return fmt.Errorf("release.manifest_url must be an http(s) URL, got %q", c.Release.ManifestURL)
	}
	return nil
}

func validateResolution(value string) error {
	width, height, ok := strings.Cut(value, "x")
	if !ok {
		return fmt.Errorf("expected WIDTHxHEIGHT, got %q", value)
	}
	for _, part := range []string{width, height} {
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return fmt.Errorf("expected WIDTHxHEIGHT, got %q", value)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
