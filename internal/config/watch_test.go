package config

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	changes := make(chan *Config, 1)
	_, initial, err := Watch(path, log, func(c *Config) {
		changes <- c
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if len(initial.Cameras) != 2 {
		t.Fatalf("expected 2 cameras initially, got %d", len(initial.Cameras))
	}

	time.Sleep(100 * time.Millisecond)

	updated := sampleYAML + "  - name: backyard\n    address: 192.168.1.12\n    username: admin\n"
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-changes:
		if len(cfg.Cameras) != 3 {
			t.Fatalf("expected 3 cameras after reload, got %d", len(cfg.Cameras))
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not observe the config change")
	}
}
