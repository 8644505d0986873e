package ytdlp_test

import (
	"testing"

	"reel/internal/ytdlp"
)

func TestParseProgress(t *testing.T) {
	cases := []struct {
		name        string
		line        string
		wantOK      bool
		wantPhase   string
		wantPercent float64
	}{
		{
			name:        "download with percent",
			line:        "[download]  42.3% of 10.00MiB at 1.00MiB/s ETA 00:06",
			wantOK:      true,
			wantPhase:   "download",
			wantPercent: 42.3,
		},
		{
			name:        "download complete",
			line:        "[download] 100% of 10.00MiB in 00:10",
			wantOK:      true,
			wantPhase:   "download",
			wantPercent: 100,
		},
		{
			name:        "destination line has no percent",
			line:        "[download] Destination: clip.mp4",
			wantOK:      true,
			wantPhase:   "download",
			wantPercent: -1,
		},
		{
			name:        "post-processing phase",
			line:        "[ExtractAudio] Destination: track.mp3",
			wantOK:      true,
			wantPhase:   "ExtractAudio",
			wantPercent: -1,
		},
		{
			name:   "plain text ignored",
			line:   "WARNING: unable to obtain file audio codec",
			wantOK: false,
		},
		{
			name:   "unclosed bracket ignored",
			line:   "[download 42%",
			wantOK: false,
		},
		{
			name:   "empty phase ignored",
			line:   "[] 42%",
			wantOK: false,
		},
		{
			name:        "percent above hundred treated as text",
			line:        "[download] 250% weird",
			wantOK:      true,
			wantPhase:   "download",
			wantPercent: -1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			update, ok := ytdlp.ParseProgress(tc.line)
			if ok != tc.wantOK {
				t.Fatalf("ParseProgress(%q) ok = %v, want %v", tc.line, ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if update.Phase != tc.wantPhase {
				t.Fatalf("unexpected phase: got %q want %q", update.Phase, tc.wantPhase)
			}
			if update.Percent != tc.wantPercent {
				t.Fatalf("unexpected percent: got %v want %v", update.Percent, tc.wantPercent)
			}
		})
	}
}
