// package formatter exports recorded robot events to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/copilette/misty/internal/recorder"
	"github.com/copilette/misty/internal/shared"
)

// defaultTitle heads Markdown and text exports when no title is given.
const defaultTitle = "Robot Events"

// ExportToCSV converts recorded events to CSV format with columns: ID, EventName, Type, Received, Message
func ExportToCSV(events []recorder.StoredEvent) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "EventName", "Type", "Received", "Message"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range events {
		record := []string{
			e.ID,
			e.EventName,
			string(e.Type),
			e.Received.Format(time.RFC3339),
			string(e.Message),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts recorded events to Markdown format with a per-type summary
func ExportToMarkdown(events []recorder.StoredEvent, title string) ([]byte, error) {
	if title == "" {
		title = defaultTitle
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Events**: %d\n\n", len(events)))

	buf.WriteString("## Types\n\n")
	for _, line := range typeLines(events) {
		buf.WriteString(fmt.Sprintf("- %s\n", line))
	}
	buf.WriteString("\n## Events\n\n")

	for i, e := range events {
		buf.WriteString(fmt.Sprintf("%d. %s - %s `%s`\n", i+1, e.Received.Format(time.RFC3339), e.Type, e.Message))
	}

	return buf.Bytes(), nil
}

// ExportToText converts recorded events to plain text format
func ExportToText(events []recorder.StoredEvent, title string) ([]byte, error) {
	if title == "" {
		title = defaultTitle
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Events: %d\n\n", len(events)))

	for i, e := range events {
		buf.WriteString(fmt.Sprintf("%d. %s %s %s\n", i+1, e.Received.Format(time.RFC3339), e.Type, e.Message))
	}

	return buf.Bytes(), nil
}

// Summary describes a store's contents without the event messages.
type Summary struct {
	Events int            `json:"events"`
	Types  map[string]int `json:"types"`
}

// Summarize counts recorded events per type.
func Summarize(events []recorder.StoredEvent) Summary {
	s := Summary{Events: len(events), Types: map[string]int{}}
	for _, e := range events {
		s.Types[string(e.Type)]++
	}
	return s
}

// ToSummaryJSON generates a JSON representation of the export's contents (without messages)
func ToSummaryJSON(events []recorder.StoredEvent) ([]byte, error) {
	return shared.MarshalJSON(Summarize(events), true)
}

// typeLines renders per-type counts in a stable order.
func typeLines(events []recorder.StoredEvent) []string {
	summary := Summarize(events)
	types := make([]string, 0, len(summary.Types))
	for t := range summary.Types {
		types = append(types, t)
	}
	sort.Strings(types)

	lines := make([]string, len(types))
	for i, t := range types {
		lines[i] = fmt.Sprintf("%s: %d", t, summary.Types[t])
	}
	return lines
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	EventsFile  string
	SummaryFile string
}

// WriteCSVExport exports recorded events to CSV with an accompanying summary JSON file.
//
// Defaults to "robot_events" as the base filename & creates {base}_events.csv and {base}_summary.json
func WriteCSVExport(events []recorder.StoredEvent, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "robot_events"
	}

	csvData, err := ExportToCSV(events)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	eventsFile := baseFilepath + "_events.csv"
	if err := os.WriteFile(eventsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(events)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		EventsFile:  eventsFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport exports recorded events to a Markdown file.
//
// Defaults to "robot_events.md" as the filename.
func WriteMarkdownExport(events []recorder.StoredEvent, title string, filepath string) (string, error) {
	if filepath == "" {
		filepath = "robot_events.md"
	}

	mdData, err := ExportToMarkdown(events, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports recorded events to plain text format.
//
// Defaults to "robot_events.txt" as the filename.
func WriteTextExport(events []recorder.StoredEvent, title string, filepath string) (string, error) {
	if filepath == "" {
		filepath = "robot_events.txt"
	}

	textData, err := ExportToText(events, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
