package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into output/upload, transcoding, scheduling, and display.
// The repeatable --at flag replaces the default schedule on first use so
// defaults from DefaultConfig() hold unless the user passes it.

import (
	"flag"
	"fmt"
	"os"
)

// Version is shown in the startup banner, --version, and help. Override at
// build time with -ldflags "-X .../internal/config.Version=...".
var Version = "1.0.0"

// ParseFlags parses args (not including the program name) into cfg.
// On --help or --version it prints and exits. On error it returns non-nil
// (e.g. unknown flag, missing positional args).
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("lapsemaster", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var showHelp, showVersion, forceColor, noColor bool

	defineOutputFlags(fs, cfg)
	defineTranscodeFlags(fs, cfg)
	defineScheduleFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &forceColor, &noColor)

	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "V", false, "Same as --version")
	fs.BoolVar(&showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "lapsemaster v"+Version)
		os.Exit(0)
	}

	if noColor {
		cfg.ColorMode = ColorNever
	} else if forceColor {
		cfg.ColorMode = ColorAlways
	}

	return parsePositionalArgs(fs, cfg)
}

// defineOutputFlags registers --output, --tmp-path, --upload, --credential-root.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputDir, "output", "", "Persistent output directory for timelapse artifacts")
	fs.StringVar(&cfg.OutputDir, "o", "", "Same as --output")
	fs.StringVar(&cfg.TmpPath, "tmp-path", "", "Root directory for scratch frame images")
	fs.BoolVar(&cfg.Upload, "upload", false, "Upload finished artifacts to YouTube")
	fs.BoolVar(&cfg.Upload, "u", false, "Same as --upload")
	fs.StringVar(&cfg.CredentialRoot, "credential-root", cfg.CredentialRoot, "Directory for materialized upload credential files")
}

// defineTranscodeFlags registers --vaapi-device, --sample-rate, --playback-fps, --clip-ext.
func defineTranscodeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.VaapiDevice, "vaapi-device", cfg.VaapiDevice, "VAAPI render device for hardware transcoding")
	fs.StringVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Frames sampled per second of source (ffmpeg rate)")
	fs.IntVar(&cfg.PlaybackFPS, "playback-fps", cfg.PlaybackFPS, "Frame rate of the assembled timelapse")
	fs.StringVar(&cfg.ClipExt, "clip-ext", cfg.ClipExt, "Clip file extension consumed from batch directories")
}

// defineScheduleFlags registers --now and the repeatable --at.
func defineScheduleFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.RunOnce, "now", false, "Run the job once immediately and exit")
	fs.BoolVar(&cfg.RunOnce, "n", false, "Same as --now")
	fs.Var(&scheduleTimesValue{times: &cfg.ScheduleTimes}, "at", "Daily run time HH:MM, repeatable (default: 01:00 and 13:00)")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, forceColor, noColor *bool) {
	fs.BoolVar(forceColor, "color", false, "Force colored logs")
	fs.BoolVar(noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (ffmpeg stderr passthrough)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// parsePositionalArgs sets CameraDirs from the positional args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("need at least one camera directory (e.g. /bluepi)")
	}
	dirs := make([]string, 0, len(args))
	for _, a := range args {
		dirs = append(dirs, NormalizeDirArg(a))
	}
	cfg.CameraDirs = dirs
	return nil
}

// scheduleTimesValue implements flag.Value for the repeatable --at flag.
// The first Set replaces the configured defaults; later Sets append.
type scheduleTimesValue struct {
	times *[]string
	set   bool
}

func (v *scheduleTimesValue) String() string {
	if v.times == nil {
		return ""
	}
	s := ""
	for i, t := range *v.times {
		if i > 0 {
			s += ","
		}
		s += t
	}
	return s
}

func (v *scheduleTimesValue) Set(s string) error {
	if _, _, err := ParseTimeOfDay(s); err != nil {
		return err
	}
	if !v.set {
		*v.times = nil
		v.set = true
	}
	*v.times = append(*v.times, s)
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "Lapsemaster v" + Version + " — scheduled camera timelapse assembler"},
		{"", ""},
		{"  lapsemaster [OPTIONS] <camera_dir> [<camera_dir> ...]", ""},
		{"", ""},
		{"Output & upload", ""},
		{"  -o, --output <dir>", "Persistent output directory (created if absent)"},
		{"  -u, --upload", "Upload finished artifacts to YouTube"},
		{"  --tmp-path <dir>", "Root for scratch frame images (created if absent)"},
		{"  --credential-root <dir>", "Directory for upload credential files (default: /)"},
		{"", ""},
		{"Transcoding", ""},
		{"  --vaapi-device <path>", "VAAPI render device (default: /dev/dri/renderD128)"},
		{"  --sample-rate <rate>", "Frames sampled per source second (default: 0.04)"},
		{"  --playback-fps <n>", "Assembled playback frame rate (default: 60)"},
		{"  --clip-ext <.ext>", "Clip extension in batch directories (default: .mp4)"},
		{"", ""},
		{"Scheduling", ""},
		{"  -n, --now", "Run once immediately instead of the daemon loop"},
		{"  --at <HH:MM>", "Daily run time, repeatable (default: 01:00 and 13:00)"},
		{"", ""},
		{"Display & diagnostics", ""},
		{"  -v, --verbose", "Verbose output (ffmpeg stderr passthrough)"},
		{"  -c, --check", "Run system diagnostics and exit"},
		{"  -l, --log <file>", "Append logs to file"},
		{"  --color / --no-color", "Force or disable colored logs"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help"},
		{"", ""},
		{"At least one of --upload or --output is required.", ""},
		{"Upload needs SECRETS_JSON and CREDENTIALS_JSON (base64) in the environment.", ""},
	}
	for _, l := range lines {
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		fmt.Fprintf(os.Stderr, "%-*s%s\n", col1, l.flags, l.desc)
	}
}
