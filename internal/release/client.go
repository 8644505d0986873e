package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reel/internal/config"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	userAgent          = "reel/0.1.0"
)

// Manifest is the published-release document the check consumes. Only the
// fields reel reads are decoded; the GitHub latest-release endpoint carries
// many more.
type Manifest struct {
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	PublishedAt string `json:"published_at"`
}

// Version returns the release version string carried by the manifest.
func (m Manifest) Version() string {
	version := strings.TrimSpace(m.TagName)
	if version == "" {
		version = strings.TrimSpace(m.Name)
	}
	return strings.TrimPrefix(version, "v")
}

// Client fetches the published-release manifest over HTTPS.
type Client struct {
	manifestURL string
	http        *http.Client
}

// NewClient builds a release client from configuration. The manifest URL and
// request timeout come from the [release] config section.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Release.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		manifestURL: strings.TrimSpace(cfg.Release.ManifestURL),
		http:        &http.Client{Timeout: timeout},
	}
}

// Latest downloads and decodes the release manifest.
func (c *Client) Latest(ctx context.Context) (Manifest, error) {
	if c.manifestURL == "" {
		return Manifest{}, errors.New("release manifest URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.manifestURL, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("build release request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Manifest{}, fmt.Errorf("fetch release manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Manifest{}, fmt.Errorf("release manifest fetch failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var manifest Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode release manifest: %w", err)
	}
	if manifest.Version() == "" {
		return Manifest{}, errors.New("release manifest carries no version")
	}
	return manifest, nil
}
