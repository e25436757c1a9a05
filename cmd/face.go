package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// FaceList prints the trained face ids.
func (r *Runner) FaceList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	faces, err := r.robot.Faces.List(ctx)
	if err != nil {
		return err
	}

	if len(faces) == 0 {
		return r.writePlainln("No trained faces.")
	}
	for _, face := range faces {
		r.writePlainln("%s", face)
	}
	return nil
}

// FaceTrain trains a new face and blocks until the robot finishes.
func (r *Runner) FaceTrain(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: face id", shared.ErrMissingArgument)
	}

	r.writePlainln("Look at the robot. Training takes about 20 seconds...")
	if err := r.robot.Faces.Train(ctx, id); err != nil {
		return err
	}

	r.logger.Info("face trained", "id", id)
	return r.writePlainln("Trained %s.", id)
}

// FaceDelete removes one trained face, or all of them with --all.
func (r *Runner) FaceDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.robot.Faces.DeleteAll(ctx)
	}
	return r.robot.Faces.Delete(ctx, cmd.StringArg("id"))
}

// FaceRecognize streams recognition events until interrupted.
func (r *Runner) FaceRecognize(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	if err := r.robot.Faces.StartRecognition(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := recoveryContext(ctx)
		defer cancel()
		r.robot.Faces.StopRecognition(stopCtx)
	}()

	sub := events.NewSubscription(events.FaceRecognition)
	stream, err := r.robot.Events.Stream(ctx, sub, int(cmd.Int("debounce")))
	if err != nil {
		return err
	}

	r.writePlainln("Watching for faces (ctrl-c to stop)...")
	for e := range stream {
		var msg struct {
			PersonName string  `json:"personName"`
			Distance   float64 `json:"distance"`
		}
		if err := json.Unmarshal(e.Message, &msg); err != nil || msg.PersonName == "" {
			continue
		}
		r.writePlainln("%s  %s (distance %.0f)", e.Received.Format("15:04:05"), msg.PersonName, msg.Distance)
	}
	return nil
}
