package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/copilette/misty/internal/models"
	"github.com/copilette/misty/internal/robot"
	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// ImageList prints the robot's image assets.
func (r *Runner) ImageList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	images, err := r.robot.Images.List(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(images, cmd.Bool("pretty"))
}

// ImageUpload sends a local file to the robot.
func (r *Runner) ImageUpload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: file path", shared.ErrMissingArgument)
	}

	err := r.robot.Images.Upload(ctx, path, robot.ImageUploadOpts{
		ApplyImmediately: cmd.Bool("apply"),
		Overwrite:        cmd.Bool("overwrite"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("image uploaded", "path", path)
	return nil
}

// ImageDisplay shows a stored image on the screen.
func (r *Runner) ImageDisplay(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: image name", shared.ErrMissingArgument)
	}
	return r.robot.Images.Display(ctx, name, cmd.Float("timeout"), cmd.Float("alpha"))
}

// ImageDelete removes a stored image.
func (r *Runner) ImageDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: image name", shared.ErrMissingArgument)
	}
	return r.robot.Images.Delete(ctx, name)
}

// ImageLED sets the chest LED from a hex color string.
func (r *Runner) ImageLED(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	hex := cmd.StringArg("hex")
	if hex == "" {
		return fmt.Errorf("%w: hex color (e.g. #ff8800)", shared.ErrMissingArgument)
	}

	packed, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return fmt.Errorf("%w: invalid hex color %q: %v", shared.ErrInvalidInput, hex, err)
	}
	return r.robot.Images.SetLED(ctx, models.RGBFromHex(int(packed)))
}

// ImageCapture takes a photo and writes it to a local file.
func (r *Runner) ImageCapture(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	pic, err := r.robot.Images.TakePicture(ctx, robot.TakePictureOpts{})
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		out = pic.Name
		if out == "" {
			out = "capture.jpg"
		}
	}

	if err := os.WriteFile(out, pic.Data, 0644); err != nil {
		return fmt.Errorf("failed to write picture: %w", err)
	}

	r.logger.Info("picture saved", "file", out, "bytes", len(pic.Data))
	return r.writePlainln("Saved %s (%dx%d)", out, pic.Width, pic.Height)
}
