// Package ffmpeg builds and executes the two transcoding invocations that
// turn a batch of clips into a timelapse: per-clip frame sampling and
// image-sequence assembly.
package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/backmassage/lapsemaster/internal/config"
)

// SampleArgs constructs the argument slice for sampling frames out of one
// clip. Frames are decoded with VAAPI hardware acceleration, sampled at
// cfg.SampleRate, and written as sequentially numbered JPEGs into imgDir.
// The clip's own name prefixes the image names so that images from later
// clips sort after images from earlier clips.
func SampleArgs(cfg *config.Config, clipPath, imgDir string) []string {
	clipName := filepath.Base(clipPath)
	args := make([]string, 0, 24)
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin")
	args = appendLoglevel(args, cfg)
	args = append(args,
		"-hwaccel", "vaapi",
		"-vaapi_device", cfg.VaapiDevice,
		"-i", clipPath,
		"-vf", "fps="+cfg.SampleRate+",format=nv12,hwupload",
		"-c:v", "mjpeg_vaapi",
		"-global_quality", strconv.Itoa(cfg.JPEGQuality),
		"-f", "image2",
		"-y",
		filepath.Join(imgDir, clipName+"_%05d.jpeg"),
	)
	return args
}

// AssembleArgs constructs the argument slice for encoding every sampled
// image in imgDir (glob-expanded in filename order by ffmpeg) into the
// single output video at cfg.PlaybackFPS.
func AssembleArgs(cfg *config.Config, imgDir, outputFile string) []string {
	args := make([]string, 0, 20)
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin")
	args = appendLoglevel(args, cfg)
	args = append(args,
		"-hwaccel", "vaapi",
		"-vaapi_device", cfg.VaapiDevice,
		"-pattern_type", "glob",
		"-i", filepath.Join(imgDir, "*.jpeg"),
		"-vf", fmt.Sprintf("fps=%d,format=nv12,hwupload", cfg.PlaybackFPS),
		"-c:v", "h264_vaapi",
		"-y",
		outputFile,
	)
	return args
}

// appendLoglevel adds the stderr verbosity shared by both invocations:
// info when verbose, otherwise error.
func appendLoglevel(args []string, cfg *config.Config) []string {
	if cfg.Verbose {
		return append(args, "-loglevel", "info", "-stats")
	}
	return append(args, "-loglevel", "error")
}
