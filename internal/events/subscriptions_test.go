package events

import (
	"errors"
	"testing"

	"github.com/copilette/misty/internal/shared"
)

func TestParseType(t *testing.T) {
	t.Run("matches case-insensitively", func(t *testing.T) {
		cases := map[string]Type{
			"TouchSensor":   TouchSensor,
			"touchsensor":   TouchSensor,
			"BATTERYCHARGE": BatteryCharge,
			"imu":           IMU,
		}
		for input, want := range cases {
			got, err := ParseType(input)
			if err != nil {
				t.Errorf("ParseType(%q) failed: %v", input, err)
				continue
			}
			if got != want {
				t.Errorf("ParseType(%q) = %q, want %q", input, got, want)
			}
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		if _, err := ParseType("Telepathy"); !errors.Is(err, shared.ErrUnknownEvent) {
			t.Errorf("got %v, want ErrUnknownEvent", err)
		}
	})
}

func TestSubscriptionString(t *testing.T) {
	cases := map[string]struct {
		sub  Subscription
		want string
	}{
		"bare type": {
			sub:  NewSubscription(BatteryCharge),
			want: "BatteryCharge",
		},
		"with a condition": {
			sub:  NewSubscription(TouchSensor, Equals("sensorPosition", "Chin")),
			want: "TouchSensor:sensorPosition=Chin",
		},
		"with several conditions": {
			sub:  NewSubscription(TouchSensor, Equals("sensorPosition", "Chin"), Equals("isContacted", "true")),
			want: "TouchSensor:sensorPosition=Chin|isContacted=true",
		},
		"with a return property": {
			sub:  IMUYaw.Subscription(),
			want: "IMU:return=Yaw",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.sub.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSensorSubscriptions(t *testing.T) {
	t.Run("touch positions filter on sensorPosition", func(t *testing.T) {
		sub := TouchScruff.Subscription()
		if sub.Type != TouchSensor {
			t.Errorf("got type %q, want TouchSensor", sub.Type)
		}
		if len(sub.Conditions) != 1 || sub.Conditions[0] != Equals("sensorPosition", "Scruff") {
			t.Errorf("unexpected conditions: %v", sub.Conditions)
		}
	})

	t.Run("bump corners filter on sensorId", func(t *testing.T) {
		sub := BumpFrontLeft.Subscription()
		if sub.Type != BumpSensor {
			t.Errorf("got type %q, want BumpSensor", sub.Type)
		}
		if len(sub.Conditions) != 1 || sub.Conditions[0] != Equals("sensorId", "bfl") {
			t.Errorf("unexpected conditions: %v", sub.Conditions)
		}
	})

	t.Run("actuators filter on sensorId", func(t *testing.T) {
		sub := ActuatorLeftArm.Subscription()
		if sub.Type != ActuatorPosition {
			t.Errorf("got type %q, want ActuatorPosition", sub.Type)
		}
		if len(sub.Conditions) != 1 || sub.Conditions[0] != Equals("sensorId", "ala") {
			t.Errorf("unexpected conditions: %v", sub.Conditions)
		}
	})

	t.Run("imu and encoder fields use a return property", func(t *testing.T) {
		if sub := IMUPitchVelocity.Subscription(); sub.ReturnProperty != "PitchVelocity" || len(sub.Conditions) != 0 {
			t.Errorf("unexpected IMU subscription: %+v", sub)
		}
		if sub := EncoderLeftVelocity.Subscription(); sub.Type != DriveEncoders || sub.ReturnProperty != "LeftVelocity" {
			t.Errorf("unexpected encoder subscription: %+v", sub)
		}
	})
}

func TestConditionPayload(t *testing.T) {
	c := Condition{Property: "distanceInMeters", Inequality: "<=", Value: "0.2"}
	got := c.payload()
	want := map[string]string{"Property": "distanceInMeters", "Inequality": "<=", "Value": "0.2"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("payload[%q] = %q, want %q", k, got[k], v)
		}
	}
}
