// Command lapsemaster is the CLI entrypoint for the Lapsemaster timelapse
// assembler.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check), runs the job once (--now), or enters the daemon
// loop that fires the job at fixed times of day.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/backmassage/lapsemaster/internal/check"
	"github.com/backmassage/lapsemaster/internal/config"
	"github.com/backmassage/lapsemaster/internal/display"
	"github.com/backmassage/lapsemaster/internal/logging"
	"github.com/backmassage/lapsemaster/internal/pipeline"
	"github.com/backmassage/lapsemaster/internal/schedule"
)

// commit is injected at build time via -ldflags; the version string lives
// in config so the banner, --version, and help all print the same value.
var commit = "unknown"

func bannerLine() string {
	return fmt.Sprintf("=== Lapsemaster v%s (%s) ===", config.Version, commit)
}

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. A .env file may carry SECRETS_JSON and
	// CREDENTIALS_JSON on dev machines; absence is not an error.
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lapsemaster: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "lapsemaster: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lapsemaster: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	if cfg.TmpPath != "" {
		if err := os.MkdirAll(cfg.TmpPath, 0o755); err != nil {
			log.Error("Cannot create tmp path: %s", cfg.TmpPath)
			return 1
		}
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", cfg.OutputDir)
			return 1
		}
	}

	log.Info("%s", bannerLine())
	for _, d := range cfg.CameraDirs {
		log.Info("Camera: %s", d)
	}
	if cfg.OutputDir != "" {
		log.Info("Out: %s", cfg.OutputDir)
	} else {
		log.Info("Out: scratch (artifacts discarded after upload)")
	}
	if cfg.Upload {
		log.Info("Upload: YouTube (private)")
	}
	log.Info("")

	// Fail fast if ffmpeg, the render device, or upload credentials are missing.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so a
	// running ffmpeg invocation is killed and the loop exits cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping…")
		cancel()
	}()

	// Phase 4: Run once, or register the job and poll until terminated.
	job := pipeline.New(&cfg, log)

	if cfg.RunOnce {
		stats := job.Run(ctx)
		if stats.Failed > 0 {
			return 1
		}
		return 0
	}

	sched := schedule.New()
	for _, at := range cfg.ScheduleTimes {
		if err := sched.At(at, func() { job.Run(ctx) }); err != nil {
			log.Error("%v", err)
			return 1
		}
		log.Info("Scheduled daily run at %s", at)
	}
	sched.Run(ctx)
	return 0
}
