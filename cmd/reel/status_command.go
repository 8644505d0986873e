package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/deps"
	"reel/internal/history"
	"reel/internal/release"
	"reel/internal/ytdlp"
)

type statusOptions struct {
	remote  bool
	jsonOut bool
}

type toolStatus struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type pathStatus struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

type historyStatus struct {
	Enabled   bool   `json:"enabled"`
	DBPath    string `json:"db_path,omitempty"`
	Total     int    `json:"total"`
	Failed    int    `json:"failed"`
	Integrity string `json:"integrity,omitempty"`
}

type releaseStatus struct {
	Outcome       string `json:"outcome,omitempty"`
	LocalVersion  string `json:"local_version,omitempty"`
	RemoteVersion string `json:"remote_version,omitempty"`
	ReleaseURL    string `json:"release_url,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Error         string `json:"error,omitempty"`
}

type statusReport struct {
	ConfigPath string         `json:"config_path"`
	Tools      []toolStatus   `json:"tools"`
	Paths      []pathStatus   `json:"paths"`
	History    *historyStatus `json:"history,omitempty"`
	Release    *releaseStatus `json:"release,omitempty"`
}

func newStatusCommand(cctx *commandContext) *cobra.Command {
	var remote bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show tool availability, paths, and versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderStatus(cmd, cctx, statusOptions{remote: remote, jsonOut: jsonOut})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Compare the installed downloader against the published release")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	return cmd
}

func renderStatus(cmd *cobra.Command, cctx *commandContext, opts statusOptions) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	report := statusReport{
		ConfigPath: cctx.configPath,
		Tools:      collectToolStatus(ctx, cfg),
		Paths:      collectPathStatus(cfg),
	}
	report.History = collectHistoryStatus(ctx, cfg)
	if opts.remote {
		report.Release = collectReleaseStatus(ctx, cfg, report.Tools)
	}

	if opts.jsonOut {
		return writeJSON(cmd, report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config: %s\n\n", report.ConfigPath)

	toolRows := make([][]string, 0, len(report.Tools))
	for _, tool := range report.Tools {
		toolRows = append(toolRows, []string{
			tool.Name, tool.Command, yesNo(tool.Available), tool.Version, tool.Detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Tool", "Command", "Available", "Version", "Notes"},
		toolRows,
		nil,
	))

	pathRows := make([][]string, 0, len(report.Paths))
	for _, path := range report.Paths {
		pathRows = append(pathRows, []string{
			path.Name, path.Path, yesNo(path.Exists), yesNo(path.Writable),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Path", "Location", "Exists", "Writable"},
		pathRows,
		nil,
	))

	if report.History != nil {
		if report.History.Enabled {
			fmt.Fprintf(out, "History: %d records (%d failed) at %s\n",
				report.History.Total, report.History.Failed, report.History.DBPath)
			if report.History.Integrity != "" && report.History.Integrity != "ok" {
				fmt.Fprintf(out, "History problem: %s\n", report.History.Integrity)
			}
		} else {
			fmt.Fprintln(out, "History: disabled")
		}
	}
	if report.Release != nil {
		if report.Release.Error != "" {
			fmt.Fprintf(out, "Release check failed: %s\n", report.Release.Error)
		} else {
			fmt.Fprintf(out, "Release: %s\n", report.Release.Summary)
		}
	}
	return nil
}

func collectToolStatus(ctx context.Context, cfg *config.Config) []toolStatus {
	downloader := deps.CheckDownloader(cfg.Downloader.Binary, cfg.Downloader.FallbackBinary)
	downloaderTool := toolStatus{
		Name:      downloader.Name,
		Command:   downloader.Command,
		Available: downloader.Available,
		Detail:    downloader.Detail,
	}
	if downloader.Available {
		if version, err := probeDownloaderVersion(ctx, downloader.Command, cfg.Downloader.TimeoutSeconds); err == nil {
			downloaderTool.Version = version
		} else if downloaderTool.Detail == "" {
			downloaderTool.Detail = err.Error()
		}
	}

	ffmpeg := deps.CheckBinaries([]deps.Requirement{{
		Name:        "FFmpeg",
		Command:     cfg.FFmpegBinary(),
		Description: "Audio extraction and conversion",
	}})[0]
	ffmpegTool := toolStatus{
		Name:      ffmpeg.Name,
		Command:   ffmpeg.Command,
		Available: ffmpeg.Available,
		Detail:    ffmpeg.Detail,
	}
	if ffmpeg.Available {
		if version, err := deps.FFmpegVersion(ctx, ffmpeg.Command); err == nil {
			ffmpegTool.Version = version
		} else if ffmpegTool.Detail == "" {
			ffmpegTool.Detail = err.Error()
		}
	}

	return []toolStatus{downloaderTool, ffmpegTool}
}

func probeDownloaderVersion(ctx context.Context, binary string, timeoutSeconds int) (string, error) {
	client, err := ytdlp.New(binary, timeoutSeconds)
	if err != nil {
		return "", err
	}
	return client.Version(ctx)
}

func collectPathStatus(cfg *config.Config) []pathStatus {
	entries := []struct {
		name string
		path string
	}{
		{"Video", cfg.Paths.VideoDir},
		{"Audio", cfg.Paths.AudioDir},
		{"Logs", cfg.Paths.LogDir},
		{"Archive", cfg.Paths.ArchiveDir},
		{"Playlist file", cfg.Paths.PlaylistFile},
	}

	statuses := make([]pathStatus, 0, len(entries))
	for _, entry := range entries {
		exists, writable := pathAccess(entry.path)
		statuses = append(statuses, pathStatus{
			Name:     entry.name,
			Path:     entry.path,
			Exists:   exists,
			Writable: writable,
		})
	}
	return statuses
}

func collectHistoryStatus(ctx context.Context, cfg *config.Config) *historyStatus {
	status := &historyStatus{Enabled: cfg.History.Enabled, DBPath: cfg.History.DBPath}
	if !cfg.History.Enabled {
		return status
	}
	store, err := history.Open(cfg)
	if err != nil {
		status.Integrity = err.Error()
		return status
	}
	defer store.Close()
	if summary, err := store.Summarize(ctx); err == nil {
		status.Total = summary.Total
		status.Failed = summary.Failed
	}
	switch health, err := store.CheckHealth(ctx); {
	case err != nil:
		status.Integrity = err.Error()
	case !health.IntegrityCheck:
		status.Integrity = "integrity check failed"
	default:
		status.Integrity = "ok"
	}
	return status
}

// collectReleaseStatus runs the published-release comparison. Failures are
// reported inside the status, never as a command error; the check is advisory.
func collectReleaseStatus(ctx context.Context, cfg *config.Config, tools []toolStatus) *releaseStatus {
	var localVersion string
	for _, tool := range tools {
		if tool.Name == "Downloader" {
			localVersion = tool.Version
			break
		}
	}

	result, err := release.NewClient(cfg).Check(ctx, localVersion)
	if err != nil {
		return &releaseStatus{Error: err.Error()}
	}
	return &releaseStatus{
		Outcome:       string(result.Outcome),
		LocalVersion:  result.LocalVersion,
		RemoteVersion: result.RemoteVersion,
		ReleaseURL:    result.ReleaseURL,
		Summary:       result.Summary(),
	}
}
