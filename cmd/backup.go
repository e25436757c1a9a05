package main

import (
	"context"
	"fmt"

	"github.com/copilette/misty/internal/shared"
	"github.com/copilette/misty/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Backup downloads the robot's image and audio assets to local disk.
func (r *Runner) Backup(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	if cmd.Bool("images-only") && cmd.Bool("audio-only") {
		return fmt.Errorf("%w: --images-only and --audio-only are mutually exclusive", shared.ErrInvalidInput)
	}

	opts := tasks.BackupOpts{
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}
	if opts.OutputDir == "" {
		opts.OutputDir = r.config.Backup.OutputDir
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = r.config.Backup.Workers
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.Backup.RateLimit
	}
	if cmd.Bool("images-only") {
		opts.Kinds = []tasks.AssetKind{tasks.KindImage}
	}
	if cmd.Bool("audio-only") {
		opts.Kinds = []tasks.AssetKind{tasks.KindAudio}
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlainln("%s", update.Message)
		}
	}()

	result, err := r.engine.Backup(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.logger.Info("backup complete",
		"total", result.TotalAssets,
		"downloaded", result.Downloaded,
		"failed", result.Failed,
		"dir", result.OutputDirectory,
	)
	r.writePlainln("\n%d/%d assets saved to %s", result.Downloaded, result.TotalAssets, result.OutputDirectory)
	if result.Failed > 0 {
		r.writePlainln("%d assets failed; see %s", result.Failed, result.ManifestPath)
	}
	return nil
}
