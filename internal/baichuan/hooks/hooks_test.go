package hooks

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestEvent(t *testing.T) {
	event := NewEvent(EventMotionStart).
		WithCamera("driveway").
		WithChannel(0).
		WithData("confidence", 92)

	if event.Type != EventMotionStart {
		t.Errorf("expected type %s, got %s", EventMotionStart, event.Type)
	}
	if event.Camera != "driveway" {
		t.Errorf("expected camera %q, got %q", "driveway", event.Camera)
	}
	if event.Data["confidence"] != 92 {
		t.Errorf("expected confidence 92, got %v", event.Data["confidence"])
	}
	if got, want := event.String(), "motion_start:driveway"; got != want {
		t.Errorf("expected string %q, got %q", want, got)
	}
}

func TestShellHook(t *testing.T) {
	hook := NewShellHook("test-hook", "/bin/echo", 10*time.Second)
	if hook.Type() != "shell" {
		t.Errorf("expected type shell, got %s", hook.Type())
	}
	if hook.ID() != "test-hook" {
		t.Errorf("expected id test-hook, got %s", hook.ID())
	}

	custom := NewShellHookWithCommand("custom", "/bin/true", nil, 5*time.Second)
	if custom.command != "/bin/true" {
		t.Errorf("expected command /bin/true, got %s", custom.command)
	}
}

func TestShellHookExecutesAndPassesEnv(t *testing.T) {
	hook := NewShellHookWithCommand("env-check", "/bin/sh",
		[]string{"-c", `[ "$NEOLINK_CAMERA" = "driveway" ] && [ "$NEOLINK_EVENT_TYPE" = "battery" ]`},
		5*time.Second)

	event := *NewEvent(EventBattery).WithCamera("driveway")
	if err := hook.Execute(context.Background(), event); err != nil {
		t.Fatalf("expected shell hook to see its environment, got: %v", err)
	}
}

func TestManager(t *testing.T) {
	manager := NewManager(DefaultConfig(), nil)
	defer manager.Close()

	hook := NewShellHook("test", "/bin/true", 10*time.Second)
	if err := manager.RegisterHook(EventConnectionUp, hook); err != nil {
		t.Fatalf("register hook: %v", err)
	}

	stats := manager.Stats()
	if stats["total_hooks"] != 1 {
		t.Errorf("expected 1 total hook, got %v", stats["total_hooks"])
	}

	if !manager.UnregisterHook(EventConnectionUp, "test") {
		t.Error("expected unregister to report success")
	}

	manager.TriggerEvent(context.Background(), *NewEvent(EventConnectionUp))
}

func TestStdioHook(t *testing.T) {
	var buf bytes.Buffer
	hook := NewStdioHook("stdio-test", "json").SetOutput(&buf)

	if err := hook.Execute(context.Background(), *NewEvent(EventFloodlight)); err != nil {
		t.Fatalf("execute stdio hook: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected stdio hook to write output")
	}
}

func TestWebhookHook(t *testing.T) {
	hook := NewWebhookHook("webhook-test", "https://example.invalid/hook", 30*time.Second)
	if hook.Type() != "webhook" {
		t.Errorf("expected type webhook, got %s", hook.Type())
	}
	hook.AddHeader("Authorization", "Bearer token")
	if hook.headers["Authorization"] != "Bearer token" {
		t.Errorf("expected header to be set, got %q", hook.headers["Authorization"])
	}
}

func TestManagerTriggerRunsHook(t *testing.T) {
	manager := NewManager(Config{Timeout: "5s", Concurrency: 2}, nil)
	defer manager.Close()

	ran := make(chan struct{}, 1)
	manager.RegisterHook(EventMotionStop, inlineHook{fn: func(Event) error {
		ran <- struct{}{}
		return nil
	}})

	manager.TriggerEvent(context.Background(), *NewEvent(EventMotionStop))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("hook did not run")
	}
}

// inlineHook lets tests assert dispatch without shelling out.
type inlineHook struct {
	fn func(Event) error
}

func (h inlineHook) Execute(ctx context.Context, event Event) error { return h.fn(event) }
func (h inlineHook) Type() string                                  { return "inline" }
func (h inlineHook) ID() string                                    { return "inline" }
