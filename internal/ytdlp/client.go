package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const versionProbeTimeout = 10 * time.Second

// Downloader defines the behaviour required by the batch runner.
type Downloader interface {
	Download(ctx context.Context, req Request, progress func(ProgressUpdate)) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps downloader CLI interactions. The downloader owns naming,
// archive bookkeeping, and post-processing; the client only assembles
// arguments and streams output lines back to the caller.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a downloader client. A timeout of zero leaves downloads
// unbounded; large playlists can legitimately run for hours.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("downloader binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary reports the configured downloader binary.
func (c *Client) Binary() string {
	return c.binary
}

// Download executes the downloader for one request, forwarding decoded
// progress lines to the callback when provided.
func (c *Client) Download(ctx context.Context, req Request, progress func(ProgressUpdate)) error {
	args, err := BuildArgs(req)
	if err != nil {
		return err
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// The downloader prints its failure reason on an ERROR line; the last
	// one becomes part of the returned error so history records carry it.
	var lastError string
	runErr := c.exec.Run(runCtx, c.binary, args, func(line string) {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "ERROR") {
			lastError = trimmed
		}
		if progress == nil {
			return
		}
		if update, ok := ParseProgress(line); ok {
			progress(update)
		}
	})
	if runErr == nil {
		return nil
	}
	if ctxErr := runCtx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%s download: timed out after %s", c.binary, c.timeout)
		}
		return ctxErr
	}
	if lastError != "" {
		return fmt.Errorf("%s download: %s: %w", c.binary, lastError, runErr)
	}
	return fmt.Errorf("%s download: %w", c.binary, runErr)
}

// Version probes the downloader's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	var first string
	if err := c.exec.Run(runCtx, c.binary, []string{"--version"}, func(line string) {
		if first == "" {
			first = strings.TrimSpace(line)
		}
	}); err != nil {
		return "", fmt.Errorf("%s version: %w", c.binary, err)
	}
	if first == "" {
		return "", fmt.Errorf("%s version: no output", c.binary)
	}
	return first, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	// stdout and stderr are scanned concurrently; the callback sees lines
	// one at a time.
	var mu sync.Mutex
	forward := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if onLine != nil {
			onLine(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
