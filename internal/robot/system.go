package robot

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/copilette/misty/internal/models"
)

// SystemAPI covers device info, battery, wifi, logs, and the other
// housekeeping endpoints.
type SystemAPI struct {
	c *Client
}

// DeviceInfo returns the firmware's description of the robot.
func (a *SystemAPI) DeviceInfo(ctx context.Context) (*models.DeviceInfo, error) {
	var info models.DeviceInfo
	if err := a.c.GetResult(ctx, "device", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Battery returns the robot's charge state.
func (a *SystemAPI) Battery(ctx context.Context) (*models.BatteryInfo, error) {
	var info models.BatteryInfo
	if err := a.c.GetResult(ctx, "battery", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// WifiNetworks returns the networks the robot knows about.
func (a *SystemAPI) WifiNetworks(ctx context.Context) ([]models.Wifi, error) {
	var networks []models.Wifi
	if err := a.c.GetResult(ctx, "networks", nil, &networks); err != nil {
		return nil, err
	}
	return networks, nil
}

// ScanWifi finds networks in range.
func (a *SystemAPI) ScanWifi(ctx context.Context) ([]models.Wifi, error) {
	var networks []models.Wifi
	if err := a.c.GetResult(ctx, "networks/scan", nil, &networks); err != nil {
		return nil, err
	}
	return networks, nil
}

// ConnectWifi joins a network the robot already knows.
func (a *SystemAPI) ConnectWifi(ctx context.Context, ssid string) error {
	_, err := a.c.Post(ctx, "networks", map[string]string{"NetworkId": ssid})
	return err
}

// SetWifiNetwork configures a new network with credentials.
func (a *SystemAPI) SetWifiNetwork(ctx context.Context, name, password string) error {
	payload := map[string]string{"NetworkName": name, "Password": password}
	_, err := a.c.Post(ctx, "network", payload)
	return err
}

// ForgetWifi drops a saved network.
func (a *SystemAPI) ForgetWifi(ctx context.Context, ssid string) error {
	_, err := a.c.Delete(ctx, "networks", map[string]string{"NetworkId": ssid})
	return err
}

// Help returns the firmware's self-documentation, optionally narrowed to one
// command.
func (a *SystemAPI) Help(ctx context.Context, command string) (json.RawMessage, error) {
	var params url.Values
	if command != "" {
		params = url.Values{"command": {command}}
	}
	var result json.RawMessage
	if err := a.c.GetResult(ctx, "help", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Logs returns the device log for a day, defaulting to today when date is
// zero.
func (a *SystemAPI) Logs(ctx context.Context, date time.Time) (string, error) {
	if date.IsZero() {
		date = time.Now()
	}
	params := url.Values{"date": {date.Format("2006/01/02")}}

	var logs string
	if err := a.c.GetResult(ctx, "logs", params, &logs); err != nil {
		return "", err
	}
	return logs, nil
}

// LogLevel returns the firmware's log level.
func (a *SystemAPI) LogLevel(ctx context.Context) (string, error) {
	var level string
	if err := a.c.GetResult(ctx, "logs/level", nil, &level); err != nil {
		return "", err
	}
	return level, nil
}

// SetLogLevel changes the firmware's log level.
func (a *SystemAPI) SetLogLevel(ctx context.Context, level string) error {
	_, err := a.c.Post(ctx, "logs/level", map[string]string{"LogLevel": level})
	return err
}

// UpdateAvailable reports whether a system update is waiting.
func (a *SystemAPI) UpdateAvailable(ctx context.Context) (bool, error) {
	var available bool
	if err := a.c.GetResult(ctx, "system/updates", nil, &available); err != nil {
		return false, err
	}
	return available, nil
}

// PerformSystemUpdate starts a firmware update.
func (a *SystemAPI) PerformSystemUpdate(ctx context.Context) error {
	_, err := a.c.Post(ctx, "system/update", nil)
	return err
}

// WebsocketNames returns the firmware's pubsub class metadata, optionally
// narrowed to one class.
func (a *SystemAPI) WebsocketNames(ctx context.Context, className string) (json.RawMessage, error) {
	var params url.Values
	if className != "" {
		params = url.Values{"websocketClass": {className}}
	}
	var result json.RawMessage
	if err := a.c.GetResult(ctx, "websockets", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// WebsocketVersion returns the pubsub protocol version.
func (a *SystemAPI) WebsocketVersion(ctx context.Context) (string, error) {
	var version string
	if err := a.c.GetResult(ctx, "websocket/version", nil, &version); err != nil {
		return "", err
	}
	return version, nil
}

// SendToBackpack writes a message to the backpack serial port.
func (a *SystemAPI) SendToBackpack(ctx context.Context, msg string) error {
	_, err := a.c.Post(ctx, "serial", map[string]string{"Message": msg})
	return err
}

// SetFlashlight turns the flashlight on or off.
func (a *SystemAPI) SetFlashlight(ctx context.Context, on bool) error {
	_, err := a.c.Post(ctx, "flashlight", map[string]bool{"On": on})
	return err
}

// ClearDisplayText removes any error text shown on the screen.
func (a *SystemAPI) ClearDisplayText(ctx context.Context) error {
	_, err := a.c.Post(ctx, "text/clear", nil)
	return err
}

// Reboot restarts the robot. Core restarts the main processor,
// sensoryServices the sensor subsystem.
func (a *SystemAPI) Reboot(ctx context.Context, core, sensoryServices bool) error {
	payload := map[string]bool{"Core": core, "SensoryServices": sensoryServices}
	_, err := a.c.Post(ctx, "reboot", payload)
	return err
}
