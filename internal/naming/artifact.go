// Package naming derives deterministic artifact names from camera and batch
// directories.
package naming

import "path/filepath"

// ArtifactName returns the output video name for a camera directory and its
// batch directory: <camera>-<batch>.mp4 (e.g. bluepi-20240115AM.mp4). Both
// arguments may be full paths; only the final element is used.
func ArtifactName(cameraDir, batchDir string) string {
	return filepath.Base(cameraDir) + "-" + filepath.Base(batchDir) + ".mp4"
}
