package main

import (
	"os"

	"golang.org/x/sys/unix"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// pathAccess reports whether path exists and whether the current user may
// write to it. Missing paths are fine; reel creates them on first use.
func pathAccess(path string) (exists, writable bool) {
	if path == "" {
		return false, false
	}
	if _, err := os.Stat(path); err != nil {
		return false, false
	}
	return true, unix.Access(path, unix.W_OK) == nil
}
