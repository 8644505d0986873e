package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reel/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantVideo := filepath.Join(tempHome, "Videos", "reel")
	if cfg.Paths.VideoDir != wantVideo {
		t.Fatalf("unexpected video dir: got %q want %q", cfg.Paths.VideoDir, wantVideo)
	}
	if cfg.Paths.AudioDir != filepath.Join(tempHome, "Music", "reel") {
		t.Fatalf("unexpected audio dir: %q", cfg.Paths.AudioDir)
	}
	if cfg.Paths.PlaylistFile != filepath.Join(tempHome, ".config", "reel", "playlists.txt") {
		t.Fatalf("unexpected playlist file: %q", cfg.Paths.PlaylistFile)
	}
	if cfg.Downloader.Binary != "yt-dlp" {
		t.Fatalf("unexpected downloader binary: %q", cfg.Downloader.Binary)
	}
	if !cfg.Downloader.UseArchive {
		t.Fatal("expected archive use enabled by default")
	}
	if cfg.Downloader.WholePlaylist {
		t.Fatal("expected whole-playlist disabled by default")
	}
	if cfg.Downloader.AudioFormat != "mp3" {
		t.Fatalf("unexpected audio format: %q", cfg.Downloader.AudioFormat)
	}
	if cfg.Transcoder.Container != "mp4" {
		t.Fatalf("unexpected container: %q", cfg.Transcoder.Container)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Release.ManifestURL != config.Default().Release.ManifestURL {
		t.Fatalf("unexpected manifest url: %q", cfg.Release.ManifestURL)
	}
	if cfg.Logging.Format != "auto" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	if got, want := cfg.VideoArchivePath(), filepath.Join(cfg.Paths.ArchiveDir, "video.archive"); got != want {
		t.Fatalf("unexpected video archive path: got %q want %q", got, want)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.VideoDir, cfg.Paths.AudioDir, cfg.Paths.LogDir, cfg.Paths.ArchiveDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reel.toml")

	type payload struct {
		Paths struct {
			VideoDir string `toml:"video_dir"`
		} `toml:"paths"`
		Downloader struct {
			Binary      string `toml:"binary"`
			AudioFormat string `toml:"audio_format"`
			UseArchive  bool   `toml:"use_archive"`
		} `toml:"downloader"`
		Transcoder struct {
			Container  string `toml:"container"`
			Resolution string `toml:"resolution"`
		} `toml:"transcoder"`
	}
	custom := payload{}
	custom.Paths.VideoDir = filepath.Join(tempDir, "vids")
	custom.Downloader.Binary = "youtube-dl"
	custom.Downloader.AudioFormat = "OPUS"
	custom.Downloader.UseArchive = false
	custom.Transcoder.Container = "mkv"
	custom.Transcoder.Resolution = "1280x720"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.VideoDir != filepath.Join(tempDir, "vids") {
		t.Fatalf("unexpected video dir: %q", cfg.Paths.VideoDir)
	}
	if cfg.Downloader.Binary != "youtube-dl" {
		t.Fatalf("expected binary override, got %q", cfg.Downloader.Binary)
	}
	if cfg.Downloader.AudioFormat != "opus" {
		t.Fatalf("expected audio format lowercased, got %q", cfg.Downloader.AudioFormat)
	}
	if cfg.Downloader.UseArchive {
		t.Fatal("expected archive use disabled by override")
	}
	if cfg.Transcoder.Container != "mkv" {
		t.Fatalf("expected container override, got %q", cfg.Transcoder.Container)
	}
	if cfg.Transcoder.Resolution != "1280x720" {
		t.Fatalf("expected resolution override, got %q", cfg.Transcoder.Resolution)
	}
}

func TestNtfyTopicEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REEL_NTFY_TOPIC", "https://ntfy.sh/reel-test")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/reel-test" {
		t.Fatalf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:    "unknown audio format",
			mutate:  func(cfg *config.Config) { cfg.Downloader.AudioFormat = "midi" },
			wantErr: "downloader.audio_format",
		},
		{
			name:    "unknown container",
			mutate:  func(cfg *config.Config) { cfg.Transcoder.Container = "divx" },
			wantErr: "transcoder.container",
		},
		{
			name:    "bad strip value",
			mutate:  func(cfg *config.Config) { cfg.Transcoder.Strip = "subtitles" },
			wantErr: "transcoder.strip",
		},
		{
			name:    "bad resolution",
			mutate:  func(cfg *config.Config) { cfg.Transcoder.Resolution = "720p" },
			wantErr: "transcoder.resolution",
		},
		{
			name:    "bad subtitle language",
			mutate:  func(cfg *config.Config) { cfg.Downloader.SubtitleLangs = []string{"!!"} },
			wantErr: "downloader.subtitle_langs",
		},
		{
			name: "matching video and audio dirs",
			mutate: func(cfg *config.Config) {
				cfg.Paths.VideoDir = "/tmp/media"
				cfg.Paths.AudioDir = "/tmp/media"
			},
			wantErr: "must differ",
		},
		{
			name:    "non-http manifest url",
			mutate:  func(cfg *config.Config) { cfg.Release.ManifestURL = "ftp://example.com/latest" },
			wantErr: "release.manifest_url",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.VideoDir = "/tmp/reel-video"
			cfg.Paths.AudioDir = "/tmp/reel-audio"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("unexpected error %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Downloader.Binary != config.Default().Downloader.Binary {
		t.Fatalf("sample should keep defaults, got binary %q", cfg.Downloader.Binary)
	}
}
