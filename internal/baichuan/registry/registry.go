// Package registry maps a configured camera name to its live BC session,
// so a CLI command or hook only needs to know the camera's name, not how
// to dial or authenticate it.
package registry

import (
	"errors"
	"sync"

	"github.com/neolink-go/neolink/internal/baichuan/session"
)

// ErrCameraExists is returned by Register when name is already registered.
var ErrCameraExists = errors.New("registry: camera already registered")

// Registry holds one *session.Connection per configured camera name.
type Registry struct {
	mu      sync.RWMutex
	cameras map[string]*Camera
}

// Camera is one registered camera's live connection plus the metadata
// needed to reconnect or report status.
type Camera struct {
	Name string
	Addr string

	mu   sync.RWMutex
	conn *session.Connection
}

// New creates an empty registry.
func New() *Registry { return &Registry{cameras: make(map[string]*Camera)} }

// Register adds a new camera entry under name with no connection attached
// yet. It returns ErrCameraExists if name is already registered.
func (r *Registry) Register(name, addr string) (*Camera, error) {
	if name == "" {
		return nil, errors.New("registry: camera name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cameras[name]; ok {
		return nil, ErrCameraExists
	}
	cam := &Camera{Name: name, Addr: addr}
	r.cameras[name] = cam
	return cam, nil
}

// Get returns the camera registered under name, or nil if absent.
func (r *Registry) Get(name string) *Camera {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cameras[name]
}

// Remove deletes name's registration, closing its connection if live.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	cam, ok := r.cameras[name]
	if ok {
		delete(r.cameras, name)
	}
	r.mu.Unlock()

	if ok {
		cam.Close()
	}
	return ok
}

// Names returns every registered camera name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cameras))
	for name := range r.cameras {
		names = append(names, name)
	}
	return names
}

// SetConnection attaches a live connection to the camera, replacing any
// prior one (the caller is responsible for closing the old connection
// first if it wants a clean handoff).
func (c *Camera) SetConnection(conn *session.Connection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
}

// Connection returns the camera's current connection, or nil if it isn't
// connected.
func (c *Camera) Connection() *session.Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// Connected reports whether the camera currently has a live connection
// that hasn't failed.
func (c *Camera) Connected() bool {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	return conn != nil && conn.Err() == nil
}

// Close tears down the camera's connection, if any, and clears it.
func (c *Camera) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}
