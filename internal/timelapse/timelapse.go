// Package timelapse drives the two-stage transcoding pipeline: per-clip
// frame sampling into a scratch image directory, then assembly of the image
// sequence into a single fast-motion video.
package timelapse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/lapsemaster/internal/config"
	"github.com/backmassage/lapsemaster/internal/ffmpeg"
	"github.com/backmassage/lapsemaster/internal/logging"
)

// RunFunc executes one prepared ffmpeg invocation. Production code passes
// [ffmpeg.Execute]; tests substitute a recorder so invocation order and
// failure behavior can be asserted without ffmpeg installed.
type RunFunc func(ctx context.Context, cfg *config.Config, args []string) ffmpeg.ExecResult

// Create produces the timelapse for one batch directory into outputFile
// using the real ffmpeg executor.
func Create(ctx context.Context, cfg *config.Config, log *logging.Logger, batchDir, outputFile string) error {
	return CreateWith(ctx, cfg, log, ffmpeg.Execute, batchDir, outputFile)
}

// CreateWith is [Create] with an explicit runner.
//
// Clips are taken in lexicographic filename order, which matches capture
// order under the camera's naming convention; the clip-name prefix on the
// sampled images then keeps the glob-expanded assembly input chronological.
// The scratch image directory is removed on every return path. Any non-zero
// exit from either stage is fatal for this batch; there are no retries.
func CreateWith(ctx context.Context, cfg *config.Config, log *logging.Logger, run RunFunc, batchDir, outputFile string) error {
	log.Info("Start to process dir %s", batchDir)

	imgDir, err := os.MkdirTemp(cfg.TmpPath, "lapsemaster-frames-")
	if err != nil {
		return fmt.Errorf("create scratch image directory: %w", err)
	}
	defer os.RemoveAll(imgDir)

	clips, err := listClips(batchDir, cfg.ClipExt)
	if err != nil {
		return err
	}

	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := run(ctx, cfg, ffmpeg.SampleArgs(cfg, filepath.Join(batchDir, clip), imgDir))
		if res.Err != nil {
			return stageError("sample", clip, res)
		}
	}

	res := run(ctx, cfg, ffmpeg.AssembleArgs(cfg, imgDir, outputFile))
	if res.Err != nil {
		return stageError("assemble", filepath.Base(outputFile), res)
	}

	log.Info("File %s is created", outputFile)
	return nil
}

// listClips returns the batch's clip file names (ext match, lexicographically
// sorted). Subdirectories and other files are ignored.
func listClips(batchDir, ext string) ([]string, error) {
	entries, err := os.ReadDir(batchDir)
	if err != nil {
		return nil, fmt.Errorf("read batch directory: %w", err)
	}
	var clips []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ext) {
			clips = append(clips, e.Name())
		}
	}
	sort.Strings(clips)
	return clips, nil
}

// stageError wraps a failed invocation with its stage, subject, and the tail
// of ffmpeg's stderr.
func stageError(stage, name string, res ffmpeg.ExecResult) error {
	tail := stderrTail(res.Stderr, 5)
	if tail != "" {
		return fmt.Errorf("%s %s: %w\n%s", stage, name, res.Err, tail)
	}
	return fmt.Errorf("%s %s: %w", stage, name, res.Err)
}

func stderrTail(stderr string, n int) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
