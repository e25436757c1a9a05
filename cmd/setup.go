package main

import (
	"context"

	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a starter config file for the user to edit.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlainln("Wrote %s. Edit robot.host to point at your robot.", path)
	return nil
}
