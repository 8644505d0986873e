package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// ResolveDownloader returns the first configured downloader binary present on
// PATH, preferring the primary. It reports whether the fallback was used.
func ResolveDownloader(primary, fallback string) (string, bool, error) {
	primary = strings.TrimSpace(primary)
	fallback = strings.TrimSpace(fallback)

	if primary != "" {
		if _, err := exec.LookPath(primary); err == nil {
			return primary, false, nil
		}
	}
	if fallback != "" {
		if _, err := exec.LookPath(fallback); err == nil {
			return fallback, true, nil
		}
	}

	switch {
	case primary == "" && fallback == "":
		return "", false, fmt.Errorf("no downloader binary configured")
	case fallback == "":
		return "", false, fmt.Errorf("downloader binary %q not found", primary)
	default:
		return "", false, fmt.Errorf("downloader binaries %q and %q not found", primary, fallback)
	}
}

// CheckDownloader builds a Status for the downloader requirement, accounting
// for the fallback binary. The downloader is available when either binary
// resolves; the detail names the fallback when the primary is missing.
func CheckDownloader(primary, fallback string) Status {
	status := Status{
		Name:        "Downloader",
		Command:     strings.TrimSpace(primary),
		Description: "Fetches media from URLs",
	}

	binary, usedFallback, err := ResolveDownloader(primary, fallback)
	if err != nil {
		status.Available = false
		status.Detail = err.Error()
		return status
	}

	status.Command = binary
	status.Available = true
	if usedFallback {
		status.Detail = fmt.Sprintf("primary %q not found, using fallback", strings.TrimSpace(primary))
	}
	return status
}
