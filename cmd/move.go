package main

import (
	"context"

	"github.com/copilette/misty/internal/models"
	"github.com/urfave/cli/v3"
)

// floatFlagUnset marks optional float flags the user did not pass.
const floatFlagUnset = -1000

func optFloat(cmd *cli.Command, name string) *float64 {
	v := cmd.Float(name)
	if v == floatFlagUnset {
		return nil
	}
	return models.Float(v)
}

// MoveDrive drives with linear and angular velocity.
func (r *Runner) MoveDrive(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}
	return r.robot.Movement.Drive(ctx, cmd.Float("linear"), cmd.Float("angular"), int(cmd.Int("time")))
}

// MoveHead positions the head.
func (r *Runner) MoveHead(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	return r.robot.Movement.MoveHead(ctx, models.HeadSettings{
		Pitch:    optFloat(cmd, "pitch"),
		Roll:     optFloat(cmd, "roll"),
		Yaw:      optFloat(cmd, "yaw"),
		Velocity: optFloat(cmd, "velocity"),
	})
}

// MoveArms positions one or both arms.
func (r *Runner) MoveArms(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	velocity := cmd.Float("velocity")
	var arms []models.ArmSettings
	if left := optFloat(cmd, "left"); left != nil {
		arms = append(arms, models.ArmSettings{Side: "left", Position: *left, Velocity: velocity})
	}
	if right := optFloat(cmd, "right"); right != nil {
		arms = append(arms, models.ArmSettings{Side: "right", Position: *right, Velocity: velocity})
	}
	return r.robot.Movement.MoveArms(ctx, arms...)
}

// MoveStop stops driving.
func (r *Runner) MoveStop(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}
	return r.robot.Movement.Stop(ctx)
}

// MoveHalt halts every motor immediately.
func (r *Runner) MoveHalt(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}
	return r.robot.Movement.Halt(ctx)
}
