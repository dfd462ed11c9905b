package hooks

import "context"

// Hook represents a handler that can be executed when an event occurs.
type Hook interface {
	Execute(ctx context.Context, event Event) error
	Type() string
	ID() string
}

// Config configures a HookManager.
type Config struct {
	// Timeout is a duration string (DefaultConfig: 30s). NewManager only
	// checks that it parses, logging a warning when it does not; hook
	// executions are not bounded by it.
	Timeout string `json:"timeout"`

	// Concurrency is the maximum number of simultaneous hook executions
	// (default: 10).
	Concurrency int `json:"concurrency"`

	// StdioFormat enables structured stdio output when non-empty: "json"
	// or "env".
	StdioFormat string `json:"stdio_format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     "30s",
		Concurrency: 10,
		StdioFormat: "",
	}
}
