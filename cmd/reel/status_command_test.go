package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

const (
	versionStub = "#!/bin/sh\necho 2025.01.01\nexit 0\n"
	ffmpegStub  = "#!/bin/sh\necho 'ffmpeg version 6.1.1 Copyright (c) 2000-2024'\nexit 0\n"
)

func manifestServer(t *testing.T, tagName string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/releases/latest"}`, tagName)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestStatusShowsToolsAndPaths(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExecutable(t, "yt-dlp", versionStub)
	stubExecutable(t, "ffmpeg", ffmpegStub)
	if err := os.MkdirAll(env.cfg.Paths.VideoDir, 0o755); err != nil {
		t.Fatalf("mkdir video dir: %v", err)
	}

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Config: "+env.configPath)
	requireContains(t, out, "yt-dlp")
	requireContains(t, out, "2025.01.01")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "6.1.1")
	requireContains(t, out, env.cfg.Paths.VideoDir)
	requireContains(t, out, "History: 0 records")
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExecutable(t, "yt-dlp", versionStub)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}

	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("unmarshal status: %v\noutput: %s", err, out)
	}
	if report.ConfigPath != env.configPath {
		t.Fatalf("ConfigPath = %q, want %q", report.ConfigPath, env.configPath)
	}
	if len(report.Tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(report.Tools))
	}
	if !report.Tools[0].Available || report.Tools[0].Version != "2025.01.01" {
		t.Fatalf("unexpected downloader tool: %+v", report.Tools[0])
	}
	if report.History == nil || !report.History.Enabled {
		t.Fatalf("expected enabled history status, got %+v", report.History)
	}
	if report.History.Integrity != "ok" {
		t.Fatalf("expected healthy history database, got %+v", report.History)
	}
	if report.Release != nil {
		t.Fatalf("release section without --remote: %+v", report.Release)
	}
}

func TestStatusRemoteReportsUpdate(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExecutable(t, "yt-dlp", versionStub)
	server := manifestServer(t, "2099.01.01")
	env.cfg.Release.ManifestURL = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status", "--remote"}, env.configPath)
	if err != nil {
		t.Fatalf("status --remote: %v", err)
	}
	requireContains(t, out, "update available: 2099.01.01")
}

func TestStatusRemoteWarnsWhenRemoteOlder(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExecutable(t, "yt-dlp", versionStub)
	server := manifestServer(t, "2000.01.01")
	env.cfg.Release.ManifestURL = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status", "--remote"}, env.configPath)
	if err != nil {
		t.Fatalf("status --remote: %v", err)
	}
	requireContains(t, out, "newer than the published release")
}

func TestStatusRemoteFailureIsNonFatal(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExecutable(t, "yt-dlp", versionStub)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	env.cfg.Release.ManifestURL = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status", "--remote"}, env.configPath)
	if err != nil {
		t.Fatalf("status --remote should not fail the command: %v", err)
	}
	requireContains(t, out, "Release check failed")
}
