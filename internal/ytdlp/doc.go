// Package ytdlp mediates access to the external media downloader CLI
// (yt-dlp, or a compatible fallback such as youtube-dl).
//
// It assembles argument lists for video and audio requests, parses the
// downloader's progress lines, and exposes a testable Executor seam so
// download code never reaches for exec.Command directly. All fetching,
// extraction, and post-processing belongs to the downloader process; this
// package only decides what to ask for and relays what came back.
//
// Argument assembly is pure and structured. Flags are discrete list entries,
// the URL is always the final argument, and nothing is ever joined into a
// shell string, so titles and paths with spaces or quotes cannot corrupt an
// invocation.
package ytdlp
