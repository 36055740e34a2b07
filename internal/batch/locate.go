// Package batch locates the capture batch directory a camera most recently
// completed. Batch directories follow the capture tool's naming convention:
// a date plus a half-day marker, e.g. 20240115AM.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// windowShift moves the day boundary so a batch spanning midnight is
// attributed to the day it mostly occurred in, and separates the AM/PM
// halves of the capture day.
const windowShift = 6 * time.Hour

// ErrNotFound is returned by Locate when the computed batch directory does
// not exist. This is the expected outcome when no new batch is ready yet
// (camera offline, batch not yet closed); callers check it with errors.Is
// and skip the camera for the current run.
var ErrNotFound = errors.New("batch directory not found")

// Name returns the batch directory name for the capture window that closed
// most recently before now: the reference time (now minus the window shift)
// formatted as YYYYMMDD plus an AM/PM marker.
func Name(now time.Time) string {
	return now.Add(-windowShift).Format("20060102PM")
}

// Locate computes the batch directory for cameraDir at now and verifies it
// exists on disk. Selection is read-only; the directory is never created.
func Locate(cameraDir string, now time.Time) (string, error) {
	dir := filepath.Join(cameraDir, Name(now))
	fi, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", dir, ErrNotFound)
		}
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory: %w", dir, ErrNotFound)
	}
	return dir, nil
}
