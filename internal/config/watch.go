package config

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher hot-reloads a Config whenever its backing file changes on disk,
// so a camera can be added or removed without restarting the bridge.
type Watcher struct {
	v *viper.Viper
}

// Watch loads path and starts watching it for changes. onChange is called
// with the freshly validated Config after every write; a change that fails
// to decode or validate is logged and the previously loaded Config is kept.
func Watch(path string, log *slog.Logger, onChange func(*Config)) (*Watcher, *Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	defaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decode(v)
		if err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		log.Info("config reloaded", "path", path)
		onChange(updated)
	})
	v.WatchConfig()

	return &Watcher{v: v}, cfg, nil
}
