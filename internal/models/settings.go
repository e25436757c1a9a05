package models

import (
	"fmt"
	"strings"
)

// Float returns a pointer to v, for the optional fields on [HeadSettings].
func Float(v float64) *float64 { return &v }

// ArmSettings positions one arm.
//
// Position and Velocity use a normalized [-100, 100] range (-100 = down,
// 100 = up) and are scaled to the units the firmware expects when building
// the request payload. On the device 90 is straight down and -90 straight up.
type ArmSettings struct {
	Side     string // "left" or "right"
	Position float64
	Velocity float64
}

// Validate checks the side name and normalized ranges.
func (a ArmSettings) Validate() error {
	var errs []string
	side := strings.ToLower(a.Side)
	if side != "left" && side != "right" {
		errs = append(errs, fmt.Sprintf("invalid side %q, must be either \"left\" or \"right\"", a.Side))
	}
	if a.Position < -100 || a.Position > 100 {
		errs = append(errs, fmt.Sprintf("invalid position %v, must be in [-100, 100]", a.Position))
	}
	if a.Velocity < 0 || a.Velocity > 100 {
		errs = append(errs, fmt.Sprintf("invalid velocity %v, must be in [0, 100]", a.Velocity))
	}
	if errs != nil {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}

// Payload returns the firmware fields for this arm, e.g. leftArmPosition and
// leftArmVelocity, with values denormalized to device units.
func (a ArmSettings) Payload() map[string]float64 {
	side := strings.ToLower(a.Side)
	return map[string]float64{
		side + "ArmPosition": a.Position / 100 * -90,
		side + "ArmVelocity": a.Velocity / 100 * 10,
	}
}

// HeadSettings moves the head. All values use the normalized [-100, 100]
// range; nil fields are omitted from the payload.
//
// Pitch is up and down, Roll tilts ear to shoulder, Yaw turns left and right.
type HeadSettings struct {
	Pitch    *float64
	Roll     *float64
	Yaw      *float64
	Velocity *float64
}

// headRanges maps each field to the device unit reached at a normalized
// value of 100, in "position" units.
var headRanges = []struct {
	name  string
	scale float64
}{
	{"Pitch", -5},
	{"Roll", 5},
	{"Yaw", -5},
	{"Velocity", 100},
}

// Payload returns the firmware fields for the head move in "position" units.
func (h HeadSettings) Payload() map[string]any {
	vals := []*float64{h.Pitch, h.Roll, h.Yaw, h.Velocity}
	payload := map[string]any{"Units": "position"}
	for i, r := range headRanges {
		if vals[i] != nil {
			payload[r.name] = *vals[i] / 100 * r.scale
		}
	}
	return payload
}

// Coords is a point on a SLAM map.
type Coords struct {
	X int
	Y int
}

func (c Coords) String() string {
	return fmt.Sprintf("%d:%d", c.X, c.Y)
}

// FormatCoords renders a path the way the firmware's drive endpoints expect:
// "x1:y1,x2:y2,...".
func FormatCoords(coords ...Coords) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
