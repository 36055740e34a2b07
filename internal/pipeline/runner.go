// Package pipeline orchestrates one job run: per camera directory, locate
// the freshest capture batch, assemble its timelapse, and optionally upload
// the artifact. Camera directories are processed sequentially and
// independently; one camera's failure never prevents the others from being
// attempted.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/lapsemaster/internal/batch"
	"github.com/backmassage/lapsemaster/internal/config"
	"github.com/backmassage/lapsemaster/internal/display"
	"github.com/backmassage/lapsemaster/internal/logging"
	"github.com/backmassage/lapsemaster/internal/naming"
	"github.com/backmassage/lapsemaster/internal/timelapse"
	"github.com/backmassage/lapsemaster/internal/upload"
)

// Uploader ships one finished artifact to the video platform. Satisfied by
// [upload.Uploader]; tests substitute a recorder.
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

type createFunc func(ctx context.Context, cfg *config.Config, log *logging.Logger, batchDir, outputFile string) error

// Job is the schedulable unit of work. One Job value lives for the whole
// process so the uploader — created lazily on the first artifact that needs
// it — is constructed at most once and reused across scheduled runs.
type Job struct {
	cfg *config.Config
	log *logging.Logger

	now         func() time.Time
	create      createFunc
	newUploader func(configRoot string) (Uploader, error)
	uploader    Uploader
}

// New returns a Job wired to the real clock, transcoder, and uploader.
func New(cfg *config.Config, log *logging.Logger) *Job {
	return &Job{
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		create: timelapse.Create,
		newUploader: func(configRoot string) (Uploader, error) {
			return upload.New(configRoot)
		},
	}
}

// Run executes the job once over every configured camera directory and
// returns aggregate stats.
func (j *Job) Run(ctx context.Context) RunStats {
	var stats RunStats
	stats.Total = len(j.cfg.CameraDirs)

	for i, cameraDir := range j.cfg.CameraDirs {
		if ctx.Err() != nil {
			j.log.Warn("Interrupted")
			break
		}
		j.log.Info("[%d/%d] %s", i+1, stats.Total, cameraDir)
		j.processCamera(ctx, cameraDir, &stats)
	}

	j.logSummary(&stats)
	return stats
}

// processCamera handles one camera directory: locate batch -> resolve output
// location -> transcode -> optional upload. A missing batch is expected and
// only skips this camera for this run; transcode failures are fatal for this
// camera only; upload failures never un-produce the artifact.
func (j *Job) processCamera(ctx context.Context, cameraDir string, stats *RunStats) {
	batchDir, err := batch.Locate(cameraDir, j.now())
	if err != nil {
		if errors.Is(err, batch.ErrNotFound) {
			j.log.Warn("%v", err)
			stats.Skipped++
			return
		}
		j.log.Error("Cannot locate batch for %s: %v", cameraDir, err)
		stats.Failed++
		return
	}

	// Without --output the artifact goes to a disposable scratch directory:
	// it exists long enough to be uploaded and is removed when this camera
	// is done.
	outputDir := j.cfg.OutputDir
	if outputDir == "" {
		scratch, err := os.MkdirTemp(j.cfg.TmpPath, "lapsemaster-out-")
		if err != nil {
			j.log.Error("Cannot create scratch output directory: %v", err)
			stats.Failed++
			return
		}
		defer os.RemoveAll(scratch)
		outputDir = scratch
	}
	outputPath := filepath.Join(outputDir, naming.ArtifactName(cameraDir, batchDir))

	start := j.now()
	if err := j.create(ctx, j.cfg, j.log, batchDir, outputPath); err != nil {
		j.log.Error("Timelapse failed for %s: %v", cameraDir, err)
		os.Remove(outputPath)
		stats.Failed++
		return
	}
	stats.Produced++

	var outSize int64
	if fi, err := os.Stat(outputPath); err == nil {
		outSize = fi.Size()
		stats.TotalOutputBytes += outSize
	}
	elapsed := int(j.now().Sub(start).Seconds())
	j.log.Success("Created %s (%s in %s)",
		filepath.Base(outputPath), display.FormatBytes(outSize), display.FormatDuration(elapsed))

	if j.cfg.Upload {
		if err := j.uploadArtifact(ctx, outputPath); err != nil {
			j.log.Error("Upload failed: %v", err)
			stats.UploadFailed++
			return
		}
		stats.Uploaded++
		j.log.Info("%s is uploaded to YouTube", outputPath)
	}
}

// uploadArtifact creates the process-lifetime uploader on first use, then
// ships the artifact.
func (j *Job) uploadArtifact(ctx context.Context, path string) error {
	if j.uploader == nil {
		up, err := j.newUploader(j.cfg.CredentialRoot)
		if err != nil {
			return fmt.Errorf("construct uploader: %w", err)
		}
		j.uploader = up
	}
	return j.uploader.Upload(ctx, path)
}

func (j *Job) logSummary(stats *RunStats) {
	j.log.Info("==============================")
	j.log.Info("Done: %d produced, %d skipped, %d failed", stats.Produced, stats.Skipped, stats.Failed)
	if j.cfg.Upload {
		j.log.Info("Uploads: %d ok, %d failed", stats.Uploaded, stats.UploadFailed)
	}
	if stats.Produced > 0 {
		j.log.Info("Total output: %s", display.FormatBytes(stats.TotalOutputBytes))
	}
}
