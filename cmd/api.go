package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the robot
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: endpoint path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.robot.Client.Get(ctx, path, nil)
	if err != nil {
		return err
	}

	var data any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}
	return r.writeJSON(data, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request to the robot
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: endpoint path", shared.ErrMissingArgument)
	}
	data := cmd.String("data")

	r.logger.Info("POST request", "path", path)

	var body any
	if err := json.Unmarshal([]byte(data), &body); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	resp, err := r.robot.Client.Post(ctx, path, body)
	if err != nil {
		return err
	}

	var out any
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}
	return r.writeJSON(out, true)
}
