package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionProbeTimeout = 10 * time.Second

var commandContext = exec.CommandContext

// FFmpegVersion probes the transcoder's version by running `ffmpeg -version`
// and extracting the version token from the banner line.
func FFmpegVersion(ctx context.Context, binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}

	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	output, err := commandContext(probeCtx, binary, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}

	version, ok := parseFFmpegBanner(string(output))
	if !ok {
		return "", fmt.Errorf("%s -version: unrecognized banner", binary)
	}
	return version, nil
}

// parseFFmpegBanner extracts the version token from the first output line,
// which has the shape "ffmpeg version 6.1.1 Copyright (c) ...".
func parseFFmpegBanner(output string) (string, bool) {
	line := output
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 3 || fields[1] != "version" {
		return "", false
	}
	return fields[2], true
}
