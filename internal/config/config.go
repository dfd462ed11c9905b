// Package config loads and validates the YAML camera-list configuration
// neolink runs from, using viper the way cybergarage-go-matter's cmd
// package uses it for flag/env-bound settings.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the root configuration document: a list of cameras plus the
// service-wide settings shared across them.
type Config struct {
	Cameras     []CameraConfig `mapstructure:"cameras"`
	BindAddr    string         `mapstructure:"bind"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
	PushToken   string         `mapstructure:"push_token_path"`
	LogLevel    string         `mapstructure:"log_level"`
}

// CameraConfig describes one camera entry.
type CameraConfig struct {
	Name           string   `mapstructure:"name"`
	Address        string   `mapstructure:"address"`
	Username       string   `mapstructure:"username"`
	Password       string   `mapstructure:"password"`
	Stream         string   `mapstructure:"stream"`
	ChannelID      uint8    `mapstructure:"channel_id"`
	PermittedUsers []string `mapstructure:"permitted_users"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("bind", "0.0.0.0:8554")
	v.SetDefault("metrics_addr", "127.0.0.1:9100")
	v.SetDefault("log_level", "info")
}

func cameraDefaults(c *CameraConfig) {
	if c.Stream == "" {
		c.Stream = "both"
	}
}

// Load reads and validates the config document at path. path's extension
// determines the format viper expects (".yaml"/".yml"/".json"/".toml");
// neolink ships YAML examples.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	defaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	for i := range cfg.Cameras {
		cameraDefaults(&cfg.Cameras[i])
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
