package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/formatter"
	"github.com/copilette/misty/internal/recorder"
	"github.com/copilette/misty/internal/shared"
	"github.com/urfave/cli/v3"
)

// ExportEvents reads recorded frames from the configured SQLite store and
// writes them to disk in the requested format.
func (r *Runner) ExportEvents(ctx context.Context, cmd *cli.Command) error {
	store, err := recorder.Open(r.config.Events.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()
	store.SetLogger(r.logger)

	var eventType events.Type
	if name := cmd.String("type"); name != "" {
		eventType, err = events.ParseType(name)
		if err != nil {
			return fmt.Errorf("%w (one of: %s)", err, strings.Join(typeNames(), ", "))
		}
	}

	recorded, err := store.Events(ctx, eventType, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(recorded) == 0 {
		return fmt.Errorf("no recorded events in %s", r.config.Events.StorePath)
	}

	output := cmd.String("output")
	title := cmd.String("title")

	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteCSVExport(recorded, output)
		if err != nil {
			return err
		}
		return r.writePlainln("Exported %d events to %s (summary: %s)", len(recorded), result.EventsFile, result.SummaryFile)
	case "markdown", "md":
		written, err := formatter.WriteMarkdownExport(recorded, title, output)
		if err != nil {
			return err
		}
		return r.writePlainln("Exported %d events to %s", len(recorded), written)
	case "text", "txt":
		written, err := formatter.WriteTextExport(recorded, title, output)
		if err != nil {
			return err
		}
		return r.writePlainln("Exported %d events to %s", len(recorded), written)
	default:
		return fmt.Errorf("%w: unknown format %q (csv, markdown, or text)", shared.ErrInvalidArgument, format)
	}
}
