package pushcache

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreSaveLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "neolink", "push_token.txt"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Load(); err != ErrNoToken {
		t.Fatalf("expected ErrNoToken before first save, got %v", err)
	}

	want := PushToken{RegistrationID: "reg-1", Topic: "reo_fcm", Updated: time.Unix(1700000000, 0).UTC()}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("load mismatch: want %+v, got %+v", want, got)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "push_token.txt"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	first := PushToken{RegistrationID: "first", Topic: "reo_fcm", Updated: time.Unix(1, 0).UTC()}
	second := PushToken{RegistrationID: "second", Topic: "reo_iphone", Updated: time.Unix(2, 0).UTC()}

	if err := store.Save(first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != second {
		t.Fatalf("expected overwritten token %+v, got %+v", second, got)
	}
}
