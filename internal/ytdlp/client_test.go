package ytdlp_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reel/internal/ytdlp"
)

type stubExecutor struct {
	lines    []string
	err      error
	calls    int
	binaries []string
	args     [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	s.calls++
	s.binaries = append(s.binaries, binary)
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.lines {
		onLine(line)
	}
	return s.err
}

func TestDownloadForwardsProgress(t *testing.T) {
	exec := &stubExecutor{lines: []string{
		"[download] Destination: clip.mp4",
		"[download]  42.3% of 10.00MiB at 1.00MiB/s ETA 00:06",
		"not a progress line",
		"[download] 100% of 10.00MiB in 00:10",
	}}
	client, err := ytdlp.New("yt-dlp", 0, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var updates []ytdlp.ProgressUpdate
	err = client.Download(context.Background(), ytdlp.Request{
		URL:       "https://example.com/watch?v=abc",
		Mode:      ytdlp.ModeVideo,
		OutputDir: t.TempDir(),
	}, func(u ytdlp.ProgressUpdate) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	if exec.calls != 1 {
		t.Fatalf("expected one invocation, got %d", exec.calls)
	}
	if exec.binaries[0] != "yt-dlp" {
		t.Fatalf("unexpected binary: %q", exec.binaries[0])
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 progress updates, got %d: %v", len(updates), updates)
	}
	if updates[1].Percent != 42.3 {
		t.Fatalf("unexpected percent: %v", updates[1].Percent)
	}

	args := exec.args[0]
	if args[len(args)-1] != "https://example.com/watch?v=abc" {
		t.Fatalf("URL must be the final argument: %v", args)
	}
}

func TestDownloadReturnsBuildErrorsWithoutRunning(t *testing.T) {
	exec := &stubExecutor{}
	client, err := ytdlp.New("yt-dlp", 0, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Download(context.Background(), ytdlp.Request{Mode: ytdlp.ModeVideo, OutputDir: "/videos"}, nil)
	if err == nil {
		t.Fatal("expected error for missing URL")
	}
	if exec.calls != 0 {
		t.Fatalf("downloader must not start on build errors, got %d calls", exec.calls)
	}
}

func TestDownloadWrapsExecutorError(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1")}
	client, err := ytdlp.New("yt-dlp", 0, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Download(context.Background(), ytdlp.Request{
		URL:       "https://example.com/watch?v=abc",
		Mode:      ytdlp.ModeVideo,
		OutputDir: t.TempDir(),
	}, nil)
	if err == nil {
		t.Fatal("expected executor error to surface")
	}
}

func TestDownloadCarriesDownloaderErrorLine(t *testing.T) {
	exec := &stubExecutor{
		lines: []string{
			"[download]  10.0% of 5.00MiB at 1.00MiB/s ETA 00:05",
			"ERROR: [youtube] abc: Video unavailable",
		},
		err: errors.New("exit status 1"),
	}
	client, err := ytdlp.New("yt-dlp", 0, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Download(context.Background(), ytdlp.Request{
		URL:       "https://example.com/watch?v=abc",
		Mode:      ytdlp.ModeVideo,
		OutputDir: t.TempDir(),
	}, nil)
	if err == nil {
		t.Fatal("expected download error")
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Fatalf("expected the downloader's ERROR line in the error, got %q", err.Error())
	}
}

func TestDownloadSurfacesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &stubExecutor{err: errors.New("signal: killed")}
	client, err := ytdlp.New("yt-dlp", 0, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Download(ctx, ytdlp.Request{
		URL:       "https://example.com/watch?v=abc",
		Mode:      ytdlp.ModeVideo,
		OutputDir: t.TempDir(),
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type blockingExecutor struct{}

func (blockingExecutor) Run(ctx context.Context, _ string, _ []string, _ func(string)) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDownloadReportsTimeout(t *testing.T) {
	client, err := ytdlp.New("yt-dlp", 1, ytdlp.WithExecutor(blockingExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Download(context.Background(), ytdlp.Request{
		URL:       "https://example.com/watch?v=abc",
		Mode:      ytdlp.ModeVideo,
		OutputDir: t.TempDir(),
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "timed out after 1s") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestVersionReturnsFirstLine(t *testing.T) {
	exec := &stubExecutor{lines: []string{"2025.08.11", "ignored"}}
	client, err := ytdlp.New("yt-dlp", 0, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if version != "2025.08.11" {
		t.Fatalf("unexpected version: %q", version)
	}
	if got := exec.args[0]; len(got) != 1 || got[0] != "--version" {
		t.Fatalf("unexpected version args: %v", got)
	}
}

func TestVersionErrorsOnNoOutput(t *testing.T) {
	client, err := ytdlp.New("yt-dlp", 0, ytdlp.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Version(context.Background()); err == nil {
		t.Fatal("expected error when version probe produces no output")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ytdlp.New("   ", 0); err == nil {
		t.Fatal("expected error for blank binary")
	}
}
