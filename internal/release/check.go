package release

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Outcome classifies the relationship between the installed downloader and
// the published release.
type Outcome string

const (
	// OutcomeUpToDate means the installed version matches the release.
	OutcomeUpToDate Outcome = "up-to-date"
	// OutcomeUpdateAvailable means a newer release has been published.
	OutcomeUpdateAvailable Outcome = "update-available"
	// OutcomeRemoteOlder means the installed version is newer than the
	// published release, which usually indicates a nightly or a damaged
	// install. This is surfaced as a warning, never an error.
	OutcomeRemoteOlder Outcome = "remote-older"
)

// Result captures a completed version check.
type Result struct {
	LocalVersion  string
	RemoteVersion string
	ReleaseURL    string
	Outcome       Outcome
}

// Summary renders the result as a one-line human message.
func (r Result) Summary() string {
	switch r.Outcome {
	case OutcomeUpdateAvailable:
		return fmt.Sprintf("update available: %s (installed %s)", r.RemoteVersion, r.LocalVersion)
	case OutcomeRemoteOlder:
		return fmt.Sprintf("installed version %s is newer than the published release %s; reinstall from the official source if this is unexpected", r.LocalVersion, r.RemoteVersion)
	default:
		return fmt.Sprintf("up to date (%s)", r.LocalVersion)
	}
}

// Check fetches the release manifest and compares it against the locally
// installed downloader version.
func (c *Client) Check(ctx context.Context, localVersion string) (Result, error) {
	localVersion = strings.TrimSpace(localVersion)
	if localVersion == "" {
		return Result{}, errors.New("local downloader version unknown")
	}

	manifest, err := c.Latest(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		LocalVersion:  strings.TrimPrefix(localVersion, "v"),
		RemoteVersion: manifest.Version(),
		ReleaseURL:    manifest.HTMLURL,
	}
	switch CompareVersions(result.RemoteVersion, result.LocalVersion) {
	case 1:
		result.Outcome = OutcomeUpdateAvailable
	case -1:
		result.Outcome = OutcomeRemoteOlder
	default:
		result.Outcome = OutcomeUpToDate
	}
	return result, nil
}

// CompareVersions orders two dotted version strings. It returns -1 when a is
// older, 1 when a is newer, and 0 when they are equal. Segments compare
// numerically when both sides parse as integers and lexically otherwise, so
// date-based downloader versions (2025.08.11) order correctly.
func CompareVersions(a, b string) int {
	segsA := splitVersion(a)
	segsB := splitVersion(b)

	max := len(segsA)
	if len(segsB) > max {
		max = len(segsB)
	}
	for i := 0; i < max; i++ {
		var segA, segB string
		if i < len(segsA) {
			segA = segsA[i]
		}
		if i < len(segsB) {
			segB = segsB[i]
		}
		if segA == segB {
			continue
		}

		numA, errA := strconv.Atoi(segA)
		numB, errB := strconv.Atoi(segB)
		switch {
		case errA == nil && errB == nil:
			if numA < numB {
				return -1
			}
			if numA > numB {
				return 1
			}
		case errA == nil && segB == "":
			if numA > 0 {
				return 1
			}
		case errB == nil && segA == "":
			if numB > 0 {
				return -1
			}
		default:
			return strings.Compare(segA, segB)
		}
	}
	return 0
}

func splitVersion(version string) []string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil
	}
	return strings.Split(version, ".")
}
