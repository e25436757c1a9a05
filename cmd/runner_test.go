package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/recorder"
	"github.com/copilette/misty/internal/robot"
	"github.com/copilette/misty/internal/shared"
	tu "github.com/copilette/misty/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			bot := robot.New("192.168.1.50", httpClient)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Robot:      bot,
				HTTPClient: httpClient,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.robot != bot {
				t.Error("expected robot to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.engine == nil {
				t.Error("expected backup engine to be built from the robot")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("builds a robot from the configured host", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Robot.Host = "192.168.1.50"

			runner := NewRunner(RunnerOpts{Config: config})

			if runner.robot == nil {
				t.Fatal("expected a robot to be built from config")
			}
			if runner.engine == nil {
				t.Error("expected a backup engine alongside the robot")
			}
		})

		t.Run("an empty host leaves the robot unset", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Robot.Host = ""

			runner := NewRunner(RunnerOpts{Config: config})

			if runner.robot != nil {
				t.Error("expected no robot without a host")
			}
			if runner.engine != nil {
				t.Error("expected no backup engine without a robot")
			}
		})
	})

	t.Run("requireRobot", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Robot.Host = ""
		runner := NewRunner(RunnerOpts{Config: config})

		err := runner.requireRobot()
		if !errors.Is(err, shared.ErrMissingHost) {
			t.Errorf("expected ErrMissingHost, got %v", err)
		}

		runner.robot = robot.New("192.168.1.50", nil)
		if err := runner.requireRobot(); err != nil {
			t.Errorf("expected no error with a robot, got %v", err)
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln appends a newline", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("battery at %d%%", 85); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "battery at 85%\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := make(map[string]bool)
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
				continue
			}
			if names[cmd.Name] {
				t.Errorf("duplicate command name %q", cmd.Name)
			}
			names[cmd.Name] = true
		}
	})
}

func TestExportEvents(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "events.db")

	store, err := recorder.Open(storePath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	err = store.Record(events.Event{
		Name:     "BatteryCharge-0001",
		Type:     events.BatteryCharge,
		Received: time.Now(),
		Message:  json.RawMessage(`{"chargePercent": 0.9}`),
	})
	store.Close()
	if err != nil {
		t.Fatalf("failed to record event: %v", err)
	}

	config := shared.DefaultConfig()
	config.Events.StorePath = storePath

	t.Run("writes a text export", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})

		path := filepath.Join(dir, "session.txt")
		cmd := exportCommand(runner)
		if err := cmd.Run(context.Background(), []string{"export", "--format", "text", "--output", path}); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "Exported 1 events to "+path) {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

		cmd := exportCommand(runner)
		err := cmd.Run(context.Background(), []string{"export", "--format", "yaml"})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("fails when the store is empty", func(t *testing.T) {
		empty := shared.DefaultConfig()
		empty.Events.StorePath = filepath.Join(t.TempDir(), "empty.db")
		runner := NewRunner(RunnerOpts{Config: empty, Output: &bytes.Buffer{}})

		cmd := exportCommand(runner)
		if err := cmd.Run(context.Background(), []string{"export"}); err == nil {
			t.Error("expected an error for an empty store")
		}
	})
}
