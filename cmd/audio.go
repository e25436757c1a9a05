package main

import (
	"context"
	"fmt"
	"time"

	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// AudioList prints the robot's audio assets.
func (r *Runner) AudioList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	clips, err := r.robot.Audio.List(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(clips, cmd.Bool("pretty"))
}

// AudioUpload sends a local audio file to the robot.
func (r *Runner) AudioUpload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: file path", shared.ErrMissingArgument)
	}

	if err := r.robot.Audio.Upload(ctx, path, cmd.Bool("play"), cmd.Bool("overwrite")); err != nil {
		return err
	}

	r.logger.Info("audio uploaded", "path", path)
	return nil
}

// AudioPlay plays a stored clip, optionally blocking until it finishes.
func (r *Runner) AudioPlay(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: clip name", shared.ErrMissingArgument)
	}

	volume := int(cmd.Int("volume"))
	if cmd.Bool("wait") {
		return r.robot.Audio.PlayAndWait(ctx, name, volume)
	}
	return r.robot.Audio.Play(ctx, name, volume)
}

// AudioStop cuts off the current playback.
func (r *Runner) AudioStop(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}
	return r.robot.Audio.StopPlaying(ctx)
}

// AudioDelete removes a stored clip.
func (r *Runner) AudioDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: clip name", shared.ErrMissingArgument)
	}
	return r.robot.Audio.Delete(ctx, name)
}

// AudioVolume sets the default playback volume.
func (r *Runner) AudioVolume(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}
	return r.robot.Audio.SetDefaultVolume(ctx, int(cmd.IntArg("level")))
}

// AudioRecord records from the microphone for a fixed duration.
func (r *Runner) AudioRecord(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: recording name", shared.ErrMissingArgument)
	}

	seconds := cmd.Int("seconds")
	if err := r.robot.Audio.Record(ctx, name); err != nil {
		return err
	}

	r.writePlainln("Recording for %ds...", seconds)
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(seconds) * time.Second):
	}

	// stop even when the wait was interrupted
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.robot.Audio.StopRecording(stopCtx); err != nil {
		return err
	}

	r.logger.Info("recording saved on robot", "name", name)
	return nil
}

// AudioKeyPhrase blocks until the robot hears its key phrase.
func (r *Runner) AudioKeyPhrase(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	r.writePlainln("Say \"Hey Misty\"...")
	if err := r.robot.Audio.WaitForKeyPhrase(ctx); err != nil {
		return err
	}
	return r.writePlainln("Heard it!")
}
