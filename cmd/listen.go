package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/recorder"
	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// Listen streams a sensor event feed to the terminal until interrupted,
// optionally recording each frame to the configured SQLite store.
func (r *Runner) Listen(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	name := cmd.StringArg("event")
	if name == "" {
		return fmt.Errorf("%w: event type (one of: %s)", shared.ErrMissingArgument, strings.Join(typeNames(), ", "))
	}

	eventType, err := events.ParseType(name)
	if err != nil {
		return fmt.Errorf("%w (one of: %s)", err, strings.Join(typeNames(), ", "))
	}

	var store *recorder.Recorder
	if cmd.Bool("record") {
		store, err = recorder.Open(r.config.Events.StorePath)
		if err != nil {
			return err
		}
		defer store.Close()
		store.SetLogger(r.logger)
		r.logger.Info("recording events", "path", r.config.Events.StorePath)
	}

	sub := events.NewSubscription(eventType)
	if prop := cmd.String("property"); prop != "" {
		sub.ReturnProperty = prop
	}

	stream, err := r.robot.Events.Stream(ctx, sub, int(cmd.Int("debounce")))
	if err != nil {
		return err
	}

	r.writePlainln("Listening for %s events (ctrl-c to stop)...", eventType)
	for e := range stream {
		r.writePlainln("%s  %s", e.Received.Format("15:04:05.000"), string(e.Message))
		if store != nil {
			if err := store.Record(e); err != nil {
				r.logger.Warn("failed to record event", "err", err)
			}
		}
	}
	return nil
}

func typeNames() []string {
	types := events.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
