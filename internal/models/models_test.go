package models

import (
	"encoding/json"
	"testing"
)

func TestRGB(t *testing.T) {
	t.Run("Hex Round Trip", func(t *testing.T) {
		c := RGBFromHex(0xff8800)
		if c.Red != 255 || c.Green != 136 || c.Blue != 0 {
			t.Errorf("unexpected components: %+v", c)
		}
		if c.Hex() != 0xff8800 {
			t.Errorf("expected 0xff8800, got %#x", c.Hex())
		}
	})

	t.Run("String", func(t *testing.T) {
		c := RGB{Red: 255, Green: 136, Blue: 0}
		if c.String() != "#ff8800" {
			t.Errorf("expected #ff8800, got %s", c.String())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (RGB{Red: 0, Green: 128, Blue: 255}).Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if err := (RGB{Red: 256}).Validate(); err == nil {
			t.Error("expected error for out-of-range component")
		}
		if err := (RGB{Blue: -1}).Validate(); err == nil {
			t.Error("expected error for negative component")
		}
	})

	t.Run("Marshals Lowercase Keys", func(t *testing.T) {
		data, err := json.Marshal(RGB{Red: 1, Green: 2, Blue: 3})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != `{"red":1,"green":2,"blue":3}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})
}

func TestArmSettings(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		valid := ArmSettings{Side: "left", Position: 50, Velocity: 60}
		if err := valid.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}

		for name, arm := range map[string]ArmSettings{
			"Bad Side":          {Side: "middle", Position: 0, Velocity: 0},
			"Position Too High": {Side: "left", Position: 101, Velocity: 0},
			"Negative Velocity": {Side: "right", Position: 0, Velocity: -1},
		} {
			t.Run(name, func(t *testing.T) {
				if err := arm.Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})

	t.Run("Payload Denormalizes To Device Units", func(t *testing.T) {
		payload := ArmSettings{Side: "Left", Position: 100, Velocity: 50}.Payload()
		if payload["leftArmPosition"] != -90 {
			t.Errorf("expected position -90, got %v", payload["leftArmPosition"])
		}
		if payload["leftArmVelocity"] != 5 {
			t.Errorf("expected velocity 5, got %v", payload["leftArmVelocity"])
		}
	})

	t.Run("Payload Keys Follow Side", func(t *testing.T) {
		payload := ArmSettings{Side: "right", Position: -100, Velocity: 100}.Payload()
		if payload["rightArmPosition"] != 90 {
			t.Errorf("expected position 90, got %v", payload["rightArmPosition"])
		}
	})
}

func TestHeadSettings(t *testing.T) {
	t.Run("Full Payload", func(t *testing.T) {
		h := HeadSettings{
			Pitch:    Float(100),
			Roll:     Float(100),
			Yaw:      Float(-100),
			Velocity: Float(50),
		}
		payload := h.Payload()

		if payload["Units"] != "position" {
			t.Errorf("expected position units, got %v", payload["Units"])
		}
		if payload["Pitch"] != -5.0 {
			t.Errorf("expected pitch -5, got %v", payload["Pitch"])
		}
		if payload["Roll"] != 5.0 {
			t.Errorf("expected roll 5, got %v", payload["Roll"])
		}
		if payload["Yaw"] != 5.0 {
			t.Errorf("expected yaw 5, got %v", payload["Yaw"])
		}
		if payload["Velocity"] != 50.0 {
			t.Errorf("expected velocity 50, got %v", payload["Velocity"])
		}
	})

	t.Run("Nil Fields Are Omitted", func(t *testing.T) {
		payload := HeadSettings{Pitch: Float(0)}.Payload()
		if _, ok := payload["Yaw"]; ok {
			t.Error("expected yaw to be omitted")
		}
		if _, ok := payload["Pitch"]; !ok {
			t.Error("expected pitch to be present")
		}
		if len(payload) != 2 {
			t.Errorf("expected 2 fields, got %d: %v", len(payload), payload)
		}
	})
}

func TestCoords(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		c := Coords{X: 3, Y: -4}
		if c.String() != "3:-4" {
			t.Errorf("expected 3:-4, got %s", c.String())
		}
	})

	t.Run("FormatCoords Joins With Commas", func(t *testing.T) {
		got := FormatCoords(Coords{X: 1, Y: 2}, Coords{X: 3, Y: 4})
		if got != "1:2,3:4" {
			t.Errorf("expected 1:2,3:4, got %s", got)
		}
	})

	t.Run("FormatCoords Single Point", func(t *testing.T) {
		if got := FormatCoords(Coords{X: 5, Y: 6}); got != "5:6" {
			t.Errorf("expected 5:6, got %s", got)
		}
	})
}

func TestBatteryInfo(t *testing.T) {
	var info BatteryInfo
	if err := json.Unmarshal([]byte(`{"chargePercent": 0.85}`), &info); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if info.Percent() != 85 {
		t.Errorf("expected 85, got %v", info.Percent())
	}
}
