package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neolink.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadCameraFindsEntry(t *testing.T) {
	path := writeTestConfig(t, `
cameras:
  - name: driveway
    address: 192.168.1.10
    username: admin
`)
	_, cam, err := loadCamera(path, "driveway")
	if err != nil {
		t.Fatalf("loadCamera: %v", err)
	}
	if cam.Address != "192.168.1.10" {
		t.Fatalf("unexpected address %q", cam.Address)
	}
}

func TestLoadCameraUnknownNameIsConfigError(t *testing.T) {
	path := writeTestConfig(t, `
cameras:
  - name: driveway
    address: 192.168.1.10
    username: admin
`)
	_, _, err := loadCamera(path, "garage")
	if err == nil {
		t.Fatalf("expected error for unknown camera")
	}
	if exitCodeFor(err) != exitConfig {
		t.Fatalf("expected config exit code, got %d", exitCodeFor(err))
	}
}

func TestLoadCameraBadFileIsConfigError(t *testing.T) {
	_, _, err := loadCamera(filepath.Join(t.TempDir(), "missing.yaml"), "driveway")
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
	if exitCodeFor(err) != exitConfig {
		t.Fatalf("expected config exit code, got %d", exitCodeFor(err))
	}
}
