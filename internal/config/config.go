// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Flags are parsed once at startup into an immutable Config that
// is passed down to the pipeline and scheduler.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it. Fields are grouped by concern.
type Config struct {
	// Camera clip archives (set from positional args).
	CameraDirs []string

	// Output & scratch.
	OutputDir string // Persistent artifact directory; empty means disposable scratch output.
	TmpPath   string // Root for scratch image directories; empty means system default.

	// Behavior flags.
	RunOnce bool // Run the job once and exit instead of entering the daemon loop.
	Upload  bool // Upload finished artifacts after transcoding.

	// Upload settings.
	CredentialRoot string // Directory where secrets.json/credentials.json are materialized. Default: "/".

	// Transcoder settings.
	VaapiDevice string // Default: "/dev/dri/renderD128".
	SampleRate  string // Frames sampled per second of source, as an ffmpeg rate. Default: "0.04".
	PlaybackFPS int    // Playback frame rate of the assembled video. Default: 60.
	JPEGQuality int    // VAAPI mjpeg global_quality for sampled frames. Default: 90.
	ClipExt     string // Clip file extension consumed from batch directories. Default: ".mp4".

	// Scheduling (daemon mode).
	ScheduleTimes []string // "HH:MM" local times of day. Default: 01:00 and 13:00.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with defaults matching the original
// container entrypoint behavior. Used as the base before [ParseFlags]
// applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		CredentialRoot: "/",
		VaapiDevice:    "/dev/dri/renderD128",
		SampleRate:     "0.04",
		PlaybackFPS:    60,
		JPEGQuality:    90,
		ClipExt:        ".mp4",
		ScheduleTimes:  []string{"01:00", "13:00"},
		ColorMode:      ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks field syntax and the output contract. A run must have
// somewhere for artifacts to go: either a persistent --output directory or
// --upload (or both); otherwise every artifact would be produced into a
// scratch directory and immediately discarded.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if !strings.HasPrefix(c.ClipExt, ".") {
		return fmt.Errorf("clip extension must start with a dot (got %q)", c.ClipExt)
	}
	if _, err := strconv.ParseFloat(c.SampleRate, 64); err != nil {
		return fmt.Errorf("invalid sample rate %q (use an ffmpeg rate, e.g. 0.04)", c.SampleRate)
	}
	if c.PlaybackFPS <= 0 {
		return fmt.Errorf("playback fps must be positive (got %d)", c.PlaybackFPS)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be 1-100 (got %d)", c.JPEGQuality)
	}

	if len(c.ScheduleTimes) == 0 {
		return errors.New("need at least one schedule time")
	}
	for _, at := range c.ScheduleTimes {
		if _, _, err := ParseTimeOfDay(at); err != nil {
			return err
		}
	}

	if c.CheckOnly {
		return nil
	}
	if len(c.CameraDirs) == 0 {
		return errors.New("need at least one camera directory")
	}
	if !c.Upload && c.OutputDir == "" {
		return errors.New("specify --upload or --output or both")
	}
	return nil
}

// ParseTimeOfDay parses a "HH:MM" wall-clock time into hour and minute.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q (use HH:MM)", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q (use HH:MM, 00-23)", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q (use HH:MM, 00-59)", s)
	}
	return hour, minute, nil
}
