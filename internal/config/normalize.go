package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeDownloader()
	c.normalizeTranscoder()
	c.normalizeRelease()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.VideoDir, err = expandPath(c.Paths.VideoDir); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PlaylistFile) == "" {
		c.Paths.PlaylistFile = defaultPlaylistFile
	}
	if c.Paths.PlaylistFile, err = expandPath(c.Paths.PlaylistFile); err != nil {
		return fmt.Errorf("paths.playlist_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.DBPath) == "" {
		c.History.DBPath = defaultHistoryDBPath
	}
	if c.History.DBPath, err = expandPath(c.History.DBPath); err != nil {
		return fmt.Errorf("history.db_path: %w", err)
	}
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
	return nil
}

func (c *Config) normalizeDownloader() {
	c.Downloader.Binary = strings.TrimSpace(c.Downloader.Binary)
	if c.Downloader.Binary == "" {
		c.Downloader.Binary = defaultDownloaderBinary
	}
	c.Downloader.FallbackBinary = strings.TrimSpace(c.Downloader.FallbackBinary)
	c.Downloader.OutputTemplate = strings.TrimSpace(c.Downloader.OutputTemplate)
	if c.Downloader.OutputTemplate == "" {
		c.Downloader.OutputTemplate = defaultOutputTemplate
	}
	c.Downloader.AudioFormat = strings.ToLower(strings.TrimSpace(c.Downloader.AudioFormat))
	if c.Downloader.AudioFormat == "" {
		c.Downloader.AudioFormat = defaultAudioFormat
	}
	if len(c.Downloader.SubtitleLangs) > 0 {
		langs := make([]string, 0, len(c.Downloader.SubtitleLangs))
		seen := make(map[string]struct{}, len(c.Downloader.SubtitleLangs))
		for _, lang := range c.Downloader.SubtitleLangs {
			normalized := strings.ToLower(strings.TrimSpace(lang))
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			langs = append(langs, normalized)
		}
		c.Downloader.SubtitleLangs = langs
	}
	if len(c.Downloader.ExtraArgs) > 0 {
		args := make([]string, 0, len(c.Downloader.ExtraArgs))
		for _, arg := range c.Downloader.ExtraArgs {
			trimmed := strings.TrimSpace(arg)
			if trimmed == "" {
				continue
			}
			args = append(args, trimmed)
		}
		c.Downloader.ExtraArgs = args
	}
	if c.Downloader.TimeoutSeconds < 0 {
		c.Downloader.TimeoutSeconds = 0
	}
}

func (c *Config) normalizeTranscoder() {
	c.Transcoder.Container = strings.ToLower(strings.TrimSpace(c.Transcoder.Container))
	if c.Transcoder.Container == "" {
		c.Transcoder.Container = defaultContainer
	}
	c.Transcoder.VideoBitrate = strings.TrimSpace(c.Transcoder.VideoBitrate)
	c.Transcoder.Resolution = strings.ToLower(strings.TrimSpace(c.Transcoder.Resolution))
	c.Transcoder.StartTime = strings.TrimSpace(c.Transcoder.StartTime)
	c.Transcoder.Duration = strings.TrimSpace(c.Transcoder.Duration)
	c.Transcoder.Strip = strings.ToLower(strings.TrimSpace(c.Transcoder.Strip))
}

func (c *Config) normalizeRelease() {
	c.Release.ManifestURL = strings.TrimSpace(c.Release.ManifestURL)
	if c.Release.ManifestURL == "" {
		c.Release.ManifestURL = defaultReleaseManifestURL
	}
	if c.Release.TimeoutSeconds <= 0 {
		c.Release.TimeoutSeconds = defaultReleaseTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("REEL_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "":
		c.Logging.Format = defaultLogFormat
	case "auto", "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
