package events

import (
	"fmt"
	"strings"

	"github.com/copilette/misty/internal/shared"
)

// Type is an event category the firmware accepts on its pubsub socket.
type Type string

const (
	ActuatorPosition    Type = "ActuatorPosition"
	AudioPlayComplete   Type = "AudioPlayComplete"
	BatteryCharge       Type = "BatteryCharge"
	BumpSensor          Type = "BumpSensor"
	DriveEncoders       Type = "DriveEncoders"
	FaceRecognition     Type = "FaceRecognition"
	FaceTraining        Type = "FaceTraining"
	HaltCommand         Type = "HaltCommand"
	IMU                 Type = "IMU"
	KeyPhraseRecognized Type = "KeyPhraseRecognized"
	LocomotionCommand   Type = "LocomotionCommand"
	SelfState           Type = "SelfState"
	SerialMessage       Type = "SerialMessage"
	TimeOfFlight        Type = "TimeOfFlight"
	TouchSensor         Type = "TouchSensor"
	WorldState          Type = "WorldState"
)

// Types lists every category, for CLI validation and help output.
func Types() []Type {
	return []Type{
		ActuatorPosition, AudioPlayComplete, BatteryCharge, BumpSensor,
		DriveEncoders, FaceRecognition, FaceTraining, HaltCommand, IMU,
		KeyPhraseRecognized, LocomotionCommand, SelfState, SerialMessage,
		TimeOfFlight, TouchSensor, WorldState,
	}
}

// ParseType matches a case-insensitive name against the known categories.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownEvent, s)
}

// Condition narrows a subscription to frames whose named property passes the
// comparison. The firmware accepts = != > < >= <= exists empty.
type Condition struct {
	Property   string
	Inequality string
	Value      string
}

// Equals builds the common equality condition.
func Equals(property, value string) Condition {
	return Condition{Property: property, Inequality: "=", Value: value}
}

func (c Condition) payload() map[string]string {
	return map[string]string{
		"Property":   c.Property,
		"Inequality": c.Inequality,
		"Value":      c.Value,
	}
}

func (c Condition) String() string {
	return c.Property + c.Inequality + c.Value
}

// Subscription is everything needed to register on the pubsub socket: the
// event category, optional condition filters, and an optional property to
// pare the returned payload down to.
type Subscription struct {
	Type           Type
	Conditions     []Condition
	ReturnProperty string
}

// NewSubscription builds a subscription for an event category with optional
// condition filters.
func NewSubscription(t Type, conditions ...Condition) Subscription {
	return Subscription{Type: t, Conditions: conditions}
}

// String renders the subscription in a form stable enough to embed in event
// names, e.g. "TouchSensor:sensorPosition=Chin".
func (s Subscription) String() string {
	parts := []string{string(s.Type)}
	if len(s.Conditions) > 0 {
		conds := make([]string, len(s.Conditions))
		for i, c := range s.Conditions {
			conds[i] = c.String()
		}
		parts = append(parts, strings.Join(conds, "|"))
	}
	if s.ReturnProperty != "" {
		parts = append(parts, "return="+s.ReturnProperty)
	}
	return strings.Join(parts, ":")
}

// TouchPosition is a capacitive touch sensor location, delivered in the
// sensorPosition property of TouchSensor events.
type TouchPosition string

const (
	TouchChin      TouchPosition = "Chin"
	TouchChinLeft  TouchPosition = "ChinLeft"
	TouchChinRight TouchPosition = "ChinRight"
	TouchHeadLeft  TouchPosition = "HeadLeft"
	TouchHeadRight TouchPosition = "HeadRight"
	TouchHeadBack  TouchPosition = "HeadBack"
	TouchHeadFront TouchPosition = "HeadFront"
	TouchHeadTop   TouchPosition = "HeadTop"
	TouchScruff    TouchPosition = "Scruff"
)

// Subscription narrows TouchSensor to this position.
func (p TouchPosition) Subscription() Subscription {
	return NewSubscription(TouchSensor, Equals("sensorPosition", string(p)))
}

// BumpPosition is one of the four bump sensors on the base.
type BumpPosition string

const (
	BumpFrontRight BumpPosition = "bfr"
	BumpFrontLeft  BumpPosition = "bfl"
	BumpBackRight  BumpPosition = "bbr"
	BumpBackLeft   BumpPosition = "bbl"
)

// Subscription narrows BumpSensor to this corner.
func (p BumpPosition) Subscription() Subscription {
	return NewSubscription(BumpSensor, Equals("sensorId", string(p)))
}

// Actuator monitors a head or arm position sensor.
type Actuator string

const (
	ActuatorPitch    Actuator = "ahp"
	ActuatorYaw      Actuator = "ahy"
	ActuatorRoll     Actuator = "ahr"
	ActuatorLeftArm  Actuator = "ala"
	ActuatorRightArm Actuator = "ara"
)

// Actuators lists every actuator sensor.
func Actuators() []Actuator {
	return []Actuator{ActuatorPitch, ActuatorYaw, ActuatorRoll, ActuatorLeftArm, ActuatorRightArm}
}

// Subscription narrows ActuatorPosition to this sensor.
func (a Actuator) Subscription() Subscription {
	return NewSubscription(ActuatorPosition, Equals("sensorId", string(a)))
}

// IMUField selects a single inertial measurement.
type IMUField string

const (
	IMUYaw           IMUField = "Yaw"
	IMUPitch         IMUField = "Pitch"
	IMURoll          IMUField = "Roll"
	IMUXAcceleration IMUField = "XAcceleration"
	IMUYAcceleration IMUField = "YAcceleration"
	IMUZAcceleration IMUField = "ZAcceleration"
	IMUPitchVelocity IMUField = "PitchVelocity"
	IMURollVelocity  IMUField = "RollVelocity"
	IMUYawVelocity   IMUField = "YawVelocity"
)

// Subscription pares IMU frames down to this field.
func (f IMUField) Subscription() Subscription {
	return Subscription{Type: IMU, ReturnProperty: string(f)}
}

// EncoderField selects a single drive-encoder measurement.
type EncoderField string

const (
	EncoderLeftDistance  EncoderField = "LeftDistance"
	EncoderRightDistance EncoderField = "RightDistance"
	EncoderLeftVelocity  EncoderField = "LeftVelocity"
	EncoderRightVelocity EncoderField = "RightVelocity"
)

// Subscription pares DriveEncoders frames down to this field.
func (f EncoderField) Subscription() Subscription {
	return Subscription{Type: DriveEncoders, ReturnProperty: string(f)}
}
