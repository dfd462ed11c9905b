package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdioHook writes event data to an output stream (stderr by default), so
// scripts wrapping the CLI can observe events without registering a shell
// hook of their own.
type StdioHook struct {
	id     string
	format string // "json" or "env"
	output io.Writer
}

// NewStdioHook creates a stdio hook writing to stderr in format.
func NewStdioHook(id, format string) *StdioHook {
	return &StdioHook{id: id, format: format, output: os.Stderr}
}

// SetOutput overrides the destination stream.
func (h *StdioHook) SetOutput(output io.Writer) *StdioHook {
	h.output = output
	return h
}

// Execute writes event in the configured format.
func (h *StdioHook) Execute(ctx context.Context, event Event) error {
	switch h.format {
	case "json":
		return h.outputJSON(event)
	case "env":
		return h.outputEnv(event)
	default:
		return fmt.Errorf("stdio hook %s: unsupported format: %s", h.id, h.format)
	}
}

func (h *StdioHook) Type() string { return "stdio" }
func (h *StdioHook) ID() string   { return h.id }

func (h *StdioHook) outputJSON(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("stdio hook %s: marshal json: %w", h.id, err)
	}
	_, err = fmt.Fprintf(h.output, "NEOLINK_EVENT: %s\n", data)
	return err
}

func (h *StdioHook) outputEnv(event Event) error {
	lines := []string{
		"# neolink event: " + string(event.Type),
		fmt.Sprintf("NEOLINK_EVENT_TYPE=%s", event.Type),
		fmt.Sprintf("NEOLINK_TIMESTAMP=%d", event.Timestamp),
	}
	if event.Camera != "" {
		lines = append(lines, "NEOLINK_CAMERA="+event.Camera)
	}
	if event.ChannelID != 0 {
		lines = append(lines, fmt.Sprintf("NEOLINK_CHANNEL_ID=%d", event.ChannelID))
	}
	for key, value := range event.Data {
		lines = append(lines, "NEOLINK_"+strings.ToUpper(key)+fmt.Sprintf("=%v", value))
	}
	lines = append(lines, "")

	for _, line := range lines {
		if _, err := fmt.Fprintln(h.output, line); err != nil {
			return fmt.Errorf("stdio hook %s: write env line: %w", h.id, err)
		}
	}
	return nil
}
