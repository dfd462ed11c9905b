package pushcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoToken is returned by Load when no token file exists yet.
var ErrNoToken = errors.New("pushcache: no token file")

// Store persists a PushToken to a local file, defaulting to
// os.UserConfigDir()/neolink/push_token.txt.
type Store struct {
	path string
}

// DefaultPath returns os.UserConfigDir()/neolink/push_token.txt.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("pushcache: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "neolink", "push_token.txt"), nil
}

// NewStore opens a Store rooted at path. An empty path resolves to
// DefaultPath().
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// Path returns the file this store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the stored token, returning ErrNoToken if the file doesn't
// exist yet.
func (s *Store) Load() (PushToken, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return PushToken{}, ErrNoToken
		}
		return PushToken{}, fmt.Errorf("pushcache: open %s: %w", s.path, err)
	}
	defer f.Close()

	return decodeToken(f)
}

// Save writes t to the store, creating parent directories as needed.
// Writes go through a temp file and rename so a concurrent Load never
// observes a partially written file.
func (s *Store) Save(t PushToken) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("pushcache: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".push_token-*.tmp")
	if err != nil {
		return fmt.Errorf("pushcache: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := t.encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("pushcache: write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("pushcache: close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("pushcache: rename into %s: %w", s.path, err)
	}
	return nil
}
