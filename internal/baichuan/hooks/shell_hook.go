package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ShellHook runs an external script when an event fires, passing event
// fields as NEOLINK_-prefixed environment variables.
type ShellHook struct {
	id       string
	command  string
	args     []string
	env      []string
	passJSON bool
	timeout  time.Duration
}

// NewShellHook creates a hook that runs scriptPath under /bin/bash.
func NewShellHook(id, scriptPath string, timeout time.Duration) *ShellHook {
	return &ShellHook{id: id, command: "/bin/bash", args: []string{scriptPath}, timeout: timeout}
}

// NewShellHookWithCommand creates a hook running an arbitrary command.
func NewShellHookWithCommand(id, command string, args []string, timeout time.Duration) *ShellHook {
	return &ShellHook{id: id, command: command, args: args, timeout: timeout}
}

// SetPassJSON enables writing the event as JSON on the script's stdin.
func (h *ShellHook) SetPassJSON(passJSON bool) *ShellHook {
	h.passJSON = passJSON
	return h
}

// SetEnv sets additional environment variables passed to every invocation.
func (h *ShellHook) SetEnv(env []string) *ShellHook {
	h.env = env
	return h
}

// Execute runs the configured command with the event available as
// environment variables (and, if enabled, as JSON on stdin).
func (h *ShellHook) Execute(ctx context.Context, event Event) error {
	execCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, h.command, h.args...)
	cmd.Env = append(cmd.Env, h.buildEnvironment(event)...)

	if h.passJSON {
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return fmt.Errorf("shell hook %s: stdin pipe: %w", h.id, err)
		}
		go func() {
			defer stdin.Close()
			_ = json.NewEncoder(stdin).Encode(event)
		}()
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("shell hook %s: execution failed: %w", h.id, err)
	}
	return nil
}

func (h *ShellHook) Type() string { return "shell" }
func (h *ShellHook) ID() string   { return h.id }

func (h *ShellHook) buildEnvironment(event Event) []string {
	env := append([]string{}, h.env...)
	env = append(env, "NEOLINK_EVENT_ID="+event.ID)
	env = append(env, "NEOLINK_EVENT_TYPE="+string(event.Type))
	env = append(env, fmt.Sprintf("NEOLINK_TIMESTAMP=%d", event.Timestamp))

	if event.Camera != "" {
		env = append(env, "NEOLINK_CAMERA="+event.Camera)
	}
	if event.ChannelID != 0 {
		env = append(env, fmt.Sprintf("NEOLINK_CHANNEL_ID=%d", event.ChannelID))
	}
	for key, value := range event.Data {
		env = append(env, "NEOLINK_"+strings.ToUpper(key)+fmt.Sprintf("=%v", value))
	}
	return env
}
