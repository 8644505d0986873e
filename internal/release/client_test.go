package release_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reel/internal/release"
	"reel/internal/testsupport"
)

func newClient(t *testing.T, serverURL string) *release.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Release.ManifestURL = serverURL
	cfg.Release.TimeoutSeconds = 5
	return release.NewClient(cfg)
}

func TestLatestDecodesManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "reel/") {
			t.Fatalf("unexpected user agent: %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"2025.08.20","name":"yt-dlp 2025.08.20","html_url":"https://example.com/releases/2025.08.20"}`))
	}))
	defer server.Close()

	manifest, err := newClient(t, server.URL).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if manifest.Version() != "2025.08.20" {
		t.Fatalf("unexpected version: %q", manifest.Version())
	}
	if manifest.HTMLURL != "https://example.com/releases/2025.08.20" {
		t.Fatalf("unexpected release URL: %q", manifest.HTMLURL)
	}
}

func TestLatestFallsBackToReleaseName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"","name":"v2021.12.17"}`))
	}))
	defer server.Close()

	manifest, err := newClient(t, server.URL).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if manifest.Version() != "2021.12.17" {
		t.Fatalf("unexpected version: %q", manifest.Version())
	}
}

func TestLatestRejectsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Latest(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP failure")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestLatestRejectsEmptyManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Latest(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no version") {
		t.Fatalf("expected missing-version error, got %v", err)
	}
}

func TestLatestRejectsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": `))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Latest(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode release manifest") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
