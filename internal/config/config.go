package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	VideoDir     string `toml:"video_dir"`
	AudioDir     string `toml:"audio_dir"`
	LogDir       string `toml:"log_dir"`
	ArchiveDir   string `toml:"archive_dir"`
	PlaylistFile string `toml:"playlist_file"`
}

// Downloader contains configuration for the external downloader binary.
type Downloader struct {
	Binary         string   `toml:"binary"`
	FallbackBinary string   `toml:"fallback_binary"`
	UseArchive     bool     `toml:"use_archive"`
	WholePlaylist  bool     `toml:"whole_playlist"`
	Verbose        bool     `toml:"verbose"`
	OutputTemplate string   `toml:"output_template"`
	AudioFormat    string   `toml:"audio_format"`
	SubtitleLangs  []string `toml:"subtitle_langs"`
	ExtraArgs      []string `toml:"extra_args"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Transcoder contains conversion parameters handed to the downloader's
// ffmpeg post-processing hook. reel never invokes ffmpeg directly.
type Transcoder struct {
	Container    string `toml:"container"`
	VideoBitrate string `toml:"video_bitrate"`
	Resolution   string `toml:"resolution"`
	StartTime    string `toml:"start_time"`
	Duration     string `toml:"duration"`
	Strip        string `toml:"strip"`
}

// History contains configuration for the local download ledger.
type History struct {
	Enabled       bool   `toml:"enabled"`
	DBPath        string `toml:"db_path"`
	RetentionDays int    `toml:"retention_days"`
}

// Release contains configuration for the published-release version check.
type Release struct {
	ManifestURL    string `toml:"manifest_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Batch          bool   `toml:"batch"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reel.
//
// Configuration sections by subsystem:
//   - Paths: download roots, log directory, archive directory, playlist file
//   - Downloader: external downloader binary and per-run options
//   - Transcoder: conversion parameters for the ffmpeg post-processing hook
//   - History: local SQLite ledger of completed requests
//   - Release: published-release manifest for the version check
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
//
// A Config is resolved once per invocation and treated as read-only
// afterwards; command-line overrides are merged into request options, never
// written back into the Config.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Downloader    Downloader    `toml:"downloader"`
	Transcoder    Transcoder    `toml:"transcoder"`
	History       History       `toml:"history"`
	Release       Release       `toml:"release"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories reel writes into. Missing
// directories are never a startup error; they are created on demand.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.VideoDir, c.Paths.AudioDir, c.Paths.LogDir, c.Paths.ArchiveDir}
	if c.History.Enabled && strings.TrimSpace(c.History.DBPath) != "" {
		dirs = append(dirs, filepath.Dir(c.History.DBPath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name the downloader's
// post-processing hook relies on.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// VideoArchivePath returns the download archive file passed to the
// downloader for video requests. The downloader owns the file contents.
func (c *Config) VideoArchivePath() string {
	return filepath.Join(c.Paths.ArchiveDir, "video.archive")
}

// AudioArchivePath returns the download archive file passed to the
// downloader for audio requests.
func (c *Config) AudioArchivePath() string {
	return filepath.Join(c.Paths.ArchiveDir, "audio.archive")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
