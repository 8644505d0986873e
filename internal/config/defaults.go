package config

const (
	defaultVideoDir             = "~/Videos/reel"
	defaultAudioDir             = "~/Music/reel"
	defaultLogDir               = "~/.local/share/reel/logs"
	defaultArchiveDir           = "~/.local/share/reel/archive"
	defaultPlaylistFile         = "~/.config/reel/playlists.txt"
	defaultHistoryDBPath        = "~/.local/share/reel/history.db"
	defaultDownloaderBinary     = "yt-dlp"
	defaultFallbackBinary       = "youtube-dl"
	defaultOutputTemplate       = "%(title)s.%(ext)s"
	defaultAudioFormat          = "mp3"
	defaultContainer            = "mp4"
	defaultReleaseManifestURL   = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"
	defaultReleaseTimeout       = 10
	defaultHistoryRetention     = 90
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "auto"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideoDir:     defaultVideoDir,
			AudioDir:     defaultAudioDir,
			LogDir:       defaultLogDir,
			ArchiveDir:   defaultArchiveDir,
			PlaylistFile: defaultPlaylistFile,
		},
		Downloader: Downloader{
			Binary:         defaultDownloaderBinary,
			FallbackBinary: defaultFallbackBinary,
			UseArchive:     true,
			OutputTemplate: defaultOutputTemplate,
			AudioFormat:    defaultAudioFormat,
		},
		Transcoder: Transcoder{
			Container: defaultContainer,
		},
		History: History{
			Enabled:       true,
			DBPath:        defaultHistoryDBPath,
			RetentionDays: defaultHistoryRetention,
		},
		Release: Release{
			ManifestURL:    defaultReleaseManifestURL,
			TimeoutSeconds: defaultReleaseTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Batch:          true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
