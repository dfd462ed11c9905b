package main

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeForSuccess(t *testing.T) {
	if got := exitCodeFor(nil); got != exitSuccess {
		t.Fatalf("expected %d, got %d", exitSuccess, got)
	}
}

func TestExitCodeForConfigError(t *testing.T) {
	err := wrapConfigError(errors.New("bad config"))
	if got := exitCodeFor(err); got != exitConfig {
		t.Fatalf("expected %d, got %d", exitConfig, got)
	}
}

func TestExitCodeForWrappedConfigError(t *testing.T) {
	err := fmt.Errorf("context: %w", wrapConfigError(errors.New("bad config")))
	if got := exitCodeFor(err); got != exitConfig {
		t.Fatalf("expected %d, got %d", exitConfig, got)
	}
}

func TestExitCodeForConnError(t *testing.T) {
	err := wrapConnError(errors.New("dial failed"))
	if got := exitCodeFor(err); got != exitUsage {
		t.Fatalf("expected %d, got %d", exitUsage, got)
	}
}

func TestExitCodeForPlainError(t *testing.T) {
	if got := exitCodeFor(errors.New("boom")); got != exitUsage {
		t.Fatalf("expected %d, got %d", exitUsage, got)
	}
}
