package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/shared"
	"github.com/copilette/misty/internal/ui"
	"github.com/urfave/cli/v3"
)

// Monitor launches the live event dashboard.
func (r *Runner) Monitor(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	names := cmd.StringSlice("event")
	if len(names) == 0 {
		names = []string{"BatteryCharge", "TouchSensor", "BumpSensor"}
	}

	subs := make([]events.Subscription, 0, len(names))
	for _, name := range names {
		eventType, err := events.ParseType(name)
		if err != nil {
			return fmt.Errorf("%w (one of: %s)", err, strings.Join(typeNames(), ", "))
		}
		subs = append(subs, events.NewSubscription(eventType))
	}

	monitor := ui.NewMonitor(ctx, r.robot, int(cmd.Int("debounce")), subs...)

	r.logger.Info("starting monitor", "events", strings.Join(names, ","))
	program := tea.NewProgram(monitor, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("%w: monitor failed: %v", shared.ErrAPIRequest, err)
	}
	return nil
}
