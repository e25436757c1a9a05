package main

import (
	"context"
	"fmt"
	"time"

	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// SystemInfo fetches and prints device information.
func (r *Runner) SystemInfo(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	info, err := r.robot.System.DeviceInfo(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(info, cmd.Bool("pretty"))
}

// SystemBattery prints the battery charge percentage.
func (r *Runner) SystemBattery(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	info, err := r.robot.System.Battery(ctx)
	if err != nil {
		return err
	}
	return r.writePlainln("%.0f%%", info.Percent())
}

// WifiList prints the robot's saved wifi networks.
func (r *Runner) WifiList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	networks, err := r.robot.System.WifiNetworks(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(networks, cmd.Bool("pretty"))
}

// WifiScan scans for nearby networks and prints them.
func (r *Runner) WifiScan(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	r.logger.Info("scanning for wifi networks")
	networks, err := r.robot.System.ScanWifi(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(networks, cmd.Bool("pretty"))
}

// WifiConnect saves and connects to a network, or reconnects to a saved one.
func (r *Runner) WifiConnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	ssid := cmd.StringArg("ssid")
	if ssid == "" {
		return fmt.Errorf("%w: ssid", shared.ErrMissingArgument)
	}

	if password := cmd.String("password"); password != "" {
		if err := r.robot.System.SetWifiNetwork(ctx, ssid, password); err != nil {
			return err
		}
	} else if err := r.robot.System.ConnectWifi(ctx, ssid); err != nil {
		return err
	}

	r.logger.Info("wifi connection requested", "ssid", ssid)
	return r.writePlainln("Connecting to %s...", ssid)
}

// WifiForget removes a saved network.
func (r *Runner) WifiForget(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	ssid := cmd.StringArg("ssid")
	if ssid == "" {
		return fmt.Errorf("%w: ssid", shared.ErrMissingArgument)
	}
	return r.robot.System.ForgetWifi(ctx, ssid)
}

// SystemLogs fetches device logs for a date.
func (r *Runner) SystemLogs(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	var date time.Time
	if d := cmd.String("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD: %v", shared.ErrInvalidInput, err)
		}
		date = parsed
	}

	logs, err := r.robot.System.Logs(ctx, date)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", logs)
}

// SystemFlashlight toggles the flashlight.
func (r *Runner) SystemFlashlight(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}
	return r.robot.System.SetFlashlight(ctx, !cmd.Bool("off"))
}

// SystemUpdate checks for a firmware update and optionally applies it.
func (r *Runner) SystemUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	available, err := r.robot.System.UpdateAvailable(ctx)
	if err != nil {
		return err
	}

	if !available {
		return r.writePlainln("Firmware is up to date.")
	}

	if !cmd.Bool("apply") {
		return r.writePlainln("Update available. Re-run with --apply to install.")
	}

	r.logger.Info("starting system update")
	if err := r.robot.System.PerformSystemUpdate(ctx); err != nil {
		return err
	}
	return r.writePlainln("Update started. The robot will be unavailable until it finishes.")
}

// SystemReboot reboots the robot.
func (r *Runner) SystemReboot(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	sensory := !cmd.Bool("core-only")
	r.logger.Info("rebooting robot", "core", true, "sensory", sensory)
	return r.robot.System.Reboot(ctx, true, sensory)
}

// SystemBackpack sends a serial message to the backpack.
func (r *Runner) SystemBackpack(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRobot(); err != nil {
		return err
	}

	msg := cmd.StringArg("message")
	if msg == "" {
		return fmt.Errorf("%w: message", shared.ErrMissingArgument)
	}
	return r.robot.System.SendToBackpack(ctx, msg)
}
