// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps) for ffmpeg, the VAAPI render device, and
// upload credentials.
package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/lapsemaster/internal/config"
	"github.com/backmassage/lapsemaster/internal/upload"
)

// Sentinel errors returned by CheckDeps when a required tool or input is missing.
var (
	ErrFfmpegNotFound    = errors.New("ffmpeg not found on PATH")
	ErrNoVAAPIDevice     = errors.New("VAAPI render device not found")
	ErrSecretsNotSet     = errors.New("SECRETS_JSON is not set (required for --upload)")
	ErrCredentialsNotSet = errors.New("CREDENTIALS_JSON is not set (required for --upload)")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// the VAAPI device, the two VAAPI encoders this tool uses, and the upload
// environment. Informational only; it does not stop on failure. Returns
// false if anything required for a default run is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfmpeg(log)
	ok = checkDevice(cfg, log) && ok
	checkVAAPIEncoders(cfg, log)
	checkUploadEnv(log)
	return ok
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return false
	}
	cmd := exec.Command("ffmpeg", "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
	return true
}

// checkDevice reports on the configured render device and lists alternatives.
func checkDevice(cfg *config.Config, log Logger) bool {
	if _, err := os.Stat(cfg.VaapiDevice); err == nil {
		log.Success("VAAPI device: %s", cfg.VaapiDevice)
		return true
	}
	log.Error("VAAPI device missing: %s", cfg.VaapiDevice)
	matches, _ := filepath.Glob("/dev/dri/renderD*")
	for _, m := range matches {
		log.Info("  available: %s", m)
	}
	return false
}

// checkVAAPIEncoders runs minimal test encodes for the two encoders the
// pipeline uses: mjpeg_vaapi (frame sampling) and h264_vaapi (assembly).
func checkVAAPIEncoders(cfg *config.Config, log Logger) {
	for _, enc := range []string{"mjpeg_vaapi", "h264_vaapi"} {
		log.Info("Testing %s on %s...", enc, cfg.VaapiDevice)
		if testEncode(cfg.VaapiDevice, enc) {
			log.Success("%s works", enc)
		} else {
			log.Error("%s test encode failed", enc)
		}
	}
}

// checkUploadEnv reports whether the credential environment variables are present.
func checkUploadEnv(log Logger) {
	for _, key := range []string{upload.SecretsEnv, upload.CredentialsEnv} {
		if _, ok := os.LookupEnv(key); ok {
			log.Success("%s is set", key)
		} else {
			log.Warn("%s is not set (upload unavailable)", key)
		}
	}
}

// CheckDeps is the pre-run validation: ffmpeg must be on PATH, the configured
// render device must exist, and upload (when enabled) must have both
// credential variables. Returns a sentinel error on failure so startup can
// fail fast instead of discovering the problem mid-batch.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := os.Stat(cfg.VaapiDevice); err != nil {
		return ErrNoVAAPIDevice
	}
	if cfg.Upload {
		if _, ok := os.LookupEnv(upload.SecretsEnv); !ok {
			return ErrSecretsNotSet
		}
		if _, ok := os.LookupEnv(upload.CredentialsEnv); !ok {
			return ErrCredentialsNotSet
		}
	}
	return nil
}

// testEncode runs a minimal ffmpeg VAAPI encode to verify the device
// supports the given encoder.
func testEncode(device, encoder string) bool {
	return runSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-init_hw_device", "vaapi=va:"+device,
		"-filter_hw_device", "va",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-vf", "format=nv12,hwupload",
		"-c:v", encoder,
		"-f", "null", "-",
	)
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
