package pushcache

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange whenever the store's token file is created or
// rewritten, so a running session can pick up a token saved by another
// process (e.g. after an out-of-band FCM re-registration) without
// restarting. It returns once ctx is cancelled or the watcher fails to
// start.
func (s *Store) Watch(ctx context.Context, log *slog.Logger, onChange func(PushToken)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			token, err := s.Load()
			if err != nil {
				log.Warn("pushcache: reload after change failed", "path", s.path, "error", err)
				continue
			}
			onChange(token)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("pushcache: watch error", "path", s.path, "error", err)
		}
	}
}
