// package shared defines helpers used across the module
package shared

import (
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] writing to the given [io.Writer] with
// timestamps and caller reporting enabled. The writer defaults to
// [os.Stderr].
//
// Set MISTY_DEBUG to any non-empty value to lower the level to debug.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
	})
	if os.Getenv("MISTY_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// WithLogger creates a child [log.Logger] with the given key-value pairs
// attached to every entry.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// GenerateID returns a new v4 [uuid.UUID] as a string.
func GenerateID() string {
	return uuid.New().String()
}

// MarshalJSON encodes v as JSON, optionally indented for human-readable
// output files.
func MarshalJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
