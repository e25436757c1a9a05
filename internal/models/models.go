package models

// ImageAsset describes an image stored on the robot.
type ImageAsset struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	UserAdded bool   `json:"userAddedAsset"`
}

// AudioAsset describes an audio clip stored on the robot.
type AudioAsset struct {
	Name      string `json:"name"`
	UserAdded bool   `json:"userAddedAsset"`
}

// Wifi describes a network the robot knows about or can see.
type Wifi struct {
	Name           string `json:"name"`
	SignalStrength int    `json:"signalStrength"`
	Secure         bool   `json:"isSecure"`
}

// Skill describes an on-robot skill.
type Skill struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartupArgs map[string]any `json:"startupArguments"`
	UID         string         `json:"uniqueId"`
}

// BatteryInfo is the robot's charge state. ChargePercent is in [0, 1]
// as reported by the firmware; Percent scales it to [0, 100].
type BatteryInfo struct {
	ChargePercent float64 `json:"chargePercent"`
	Current       float64 `json:"current"`
	Voltage       float64 `json:"voltage"`
	IsCharging    bool    `json:"isCharging"`
	HealthPercent float64 `json:"healthPercent"`
	State         string  `json:"state"`
}

// Percent returns the charge as a [0, 100] value.
func (b BatteryInfo) Percent() float64 {
	return b.ChargePercent * 100
}

// DeviceInfo is the firmware's description of the robot.
type DeviceInfo struct {
	RobotID         string `json:"robotId"`
	RobotVersion    string `json:"robotVersion"`
	SerialNumber    string `json:"serialNumber"`
	IPAddress       string `json:"ipAddress"`
	NetworkName     string `json:"networkConnectivity"`
	HardwareInfo    string `json:"hardwareInfo"`
	WindowsOSVer    string `json:"windowsOSVersion"`
	SensoryServices string `json:"sensoryServiceAppVersion"`
}

// BlinkSettings controls the eye-blink behavior of the display.
// Nil durations are left unchanged on the device.
type BlinkSettings struct {
	ClosedEyeMinMS *int              `json:"closedEyeMinMs,omitempty"`
	ClosedEyeMaxMS *int              `json:"closedEyeMaxMs,omitempty"`
	OpenEyeMinMS   *int              `json:"openEyeMinMs,omitempty"`
	OpenEyeMaxMS   *int              `json:"openEyeMaxMs,omitempty"`
	BlinkImages    map[string]string `json:"blinkImages,omitempty"`
}
