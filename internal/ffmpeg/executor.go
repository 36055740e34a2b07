package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/backmassage/lapsemaster/internal/config"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute runs the prepared ffmpeg command. When verbose is enabled, stderr
// is tee'd to os.Stderr in real time; otherwise it is captured silently so
// the caller can log it on failure. Cancelling ctx kills the process.
func Execute(ctx context.Context, cfg *config.Config, args []string) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
