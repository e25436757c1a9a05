// package recorder persists robot event frames to a SQLite database so
// sensor streams can be replayed or inspected after a session.
package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/shared"
)

const schema = `
	CREATE TABLE IF NOT EXISTS robot_events (
		id TEXT PRIMARY KEY,
		event_name TEXT NOT NULL,
		event_type TEXT NOT NULL,
		received_at TIMESTAMP NOT NULL,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_robot_events_type ON robot_events(event_type);
`

// StoredEvent is one recorded frame as read back from the database.
type StoredEvent struct {
	ID        string
	EventName string
	Type      events.Type
	Received  time.Time
	Message   json.RawMessage
}

// Recorder writes event frames to a SQLite database.
type Recorder struct {
	db     *sql.DB
	logger *log.Logger
}

// Open creates a Recorder backed by the database at path, creating the
// events table if it does not exist. The path can be ":memory:".
func Open(path string) (*Recorder, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}
	return &Recorder{db: db, logger: shared.NewLogger(nil)}, nil
}

// SetLogger replaces the recorder's logger.
func (r *Recorder) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// Record stores a single event frame.
func (r *Recorder) Record(e events.Event) error {
	_, err := r.db.Exec(
		"INSERT INTO robot_events (id, event_name, event_type, received_at, message) VALUES (?, ?, ?, ?, ?)",
		shared.GenerateID(), e.Name, string(e.Type), e.Received, string(e.Message),
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// Handler adapts the recorder into an event handler. Write failures are
// logged rather than surfaced so a slow disk never stalls a sensor stream.
func (r *Recorder) Handler() events.Handler {
	return func(e events.Event) {
		if err := r.Record(e); err != nil {
			r.logger.Error("failed to record event", "type", e.Type, "err", err)
		}
	}
}

// Events returns recorded frames, newest first. An empty eventType returns
// every type; limit <= 0 returns all rows.
func (r *Recorder) Events(ctx context.Context, eventType events.Type, limit int) ([]StoredEvent, error) {
	query := "SELECT id, event_name, event_type, received_at, message FROM robot_events"
	var args []any
	if eventType != "" {
		query += " WHERE event_type = ?"
		args = append(args, string(eventType))
	}
	query += " ORDER BY received_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var (
			ev      StoredEvent
			typ     string
			message string
		)
		if err := rows.Scan(&ev.ID, &ev.EventName, &typ, &ev.Received, &message); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Type = events.Type(typ)
		ev.Message = json.RawMessage(message)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountByType returns the number of recorded frames per event type.
func (r *Recorder) CountByType(ctx context.Context) (map[events.Type]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT event_type, COUNT(*) FROM robot_events GROUP BY event_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[events.Type]int)
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[events.Type(typ)] = n
	}
	return counts, rows.Err()
}
