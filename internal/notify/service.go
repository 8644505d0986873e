package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reel/internal/config"
)

const userAgent = "reel/0.1.0"

// Service delivers batch lifecycle events to the configured notifier.
type Service interface {
	BatchStarted(ctx context.Context, count int) error
	BatchCompleted(ctx context.Context, succeeded, failed int, duration time.Duration) error
	Error(ctx context.Context, err error, label string) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		batchEvents: cfg.Notifications.Batch,
		errorEvents: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	batchEvents bool
	errorEvents bool
}

func (n *ntfyService) BatchStarted(ctx context.Context, count int) error {
	if !n.batchEvents {
		return nil
	}
	noun := "downloads"
	if count == 1 {
		noun = "download"
	}
	data := payload{
		title:   "reel - Batch Started",
		message: fmt.Sprintf("Started batch of %d %s", count, noun),
		tags:    []string{"reel", "batch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) BatchCompleted(ctx context.Context, succeeded, failed int, duration time.Duration) error {
	if !n.batchEvents {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()

	data := payload{
		tags: []string{"reel", "batch", "completed"},
	}
	if failed == 0 {
		data.title = "reel - Batch Complete"
		data.message = fmt.Sprintf("Batch complete: %d downloads in %s", succeeded, durationText)
	} else {
		data.title = "reel - Batch Complete (with errors)"
		data.message = fmt.Sprintf("Batch complete: %d succeeded, %d failed in %s", succeeded, failed, durationText)
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) Error(ctx context.Context, err error, label string) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if label = strings.TrimSpace(label); label != "" {
		builder.WriteString(" with ")
		builder.WriteString(label)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "reel - Error",
		message:  builder.String(),
		tags:     []string{"reel", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) BatchStarted(context.Context, int) error { return nil }
func (noopService) BatchCompleted(context.Context, int, int, time.Duration) error {
	return nil
}
func (noopService) Error(context.Context, error, string) error { return nil }
