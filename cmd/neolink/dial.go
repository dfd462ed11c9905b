package main

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/neolink-go/neolink/internal/baichuan/session"
	appconfig "github.com/neolink-go/neolink/internal/config"
)

// defaultBCPort is the camera's well-known Baichuan TCP listener port, used
// when a config entry's address has none.
const defaultBCPort = "9000"

// loadCamera loads configPath and returns the named camera's entry, or a
// configError if the file can't be read/validated or the name isn't found.
func loadCamera(configPath, name string) (*appconfig.Config, *appconfig.CameraConfig, error) {
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return nil, nil, wrapConfigError(err)
	}
	for i := range cfg.Cameras {
		if cfg.Cameras[i].Name == name {
			return cfg, &cfg.Cameras[i], nil
		}
	}
	return nil, nil, wrapConfigError(fmt.Errorf("no camera named %q in %s", name, configPath))
}

// dial opens a TCP connection to cam's configured address and logs in,
// returning a ready-to-use Connection. A net.Conn over TCP already
// satisfies io.ReadWriteCloser, so it's handed to the session layer
// directly rather than through the reliable-UDP transport, matching
// spec.md §6's "Transport: TCP" interface alongside the UDP one.
func dial(cam *appconfig.CameraConfig, log *slog.Logger) (*session.Connection, error) {
	addr := cam.Address
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, defaultBCPort)
	}

	raw, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, wrapConnError(fmt.Errorf("dial %s: %w", addr, err))
	}

	conn := session.NewConnection(cam.Name, raw, log)
	conn.SetMetrics(metricsRegistry)
	conn.SetHooks(hookManager)
	conn.Start()

	if err := session.Login(conn, cam.Username, cam.Password, session.MaxEncryptionAes); err != nil {
		conn.Close()
		return nil, wrapConnError(fmt.Errorf("login to %s: %w", cam.Name, err))
	}
	return conn, nil
}
