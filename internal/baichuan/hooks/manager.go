package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neolink-go/neolink/internal/metrics"
)

// Manager registers and dispatches hooks for BC session events.
type Manager struct {
	hooks     map[EventType][]Hook
	stdioHook *StdioHook
	mu        sync.RWMutex
	pool      *executionPool
	logger    *slog.Logger
	config    Config
}

// NewManager creates a Manager from config, starting its execution pool.
func NewManager(config Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := time.ParseDuration(config.Timeout); err != nil {
		logger.Warn("invalid hook timeout", "timeout", config.Timeout, "error", err)
	}

	m := &Manager{
		hooks:  make(map[EventType][]Hook),
		logger: logger,
		config: config,
		pool:   newExecutionPool(config.Concurrency, logger),
	}

	if config.StdioFormat != "" {
		m.EnableStdioOutput(config.StdioFormat)
	}

	return m
}

// SetMetrics attaches a metrics registry the manager's execution pool
// increments on every hook run and failure, broken down by event type.
func (m *Manager) SetMetrics(reg *metrics.Registry) {
	m.pool.metrics = reg
}

// RegisterHook attaches hook to eventType.
func (m *Manager) RegisterHook(eventType EventType, hook Hook) error {
	if hook == nil {
		return fmt.Errorf("hooks: cannot register nil hook")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks[eventType] = append(m.hooks[eventType], hook)
	m.logger.Info("hook registered", "event_type", eventType, "hook_type", hook.Type(), "hook_id", hook.ID())
	return nil
}

// UnregisterHook removes a hook by ID from eventType, reporting whether one
// was found.
func (m *Manager) UnregisterHook(eventType EventType, hookID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	hooks := m.hooks[eventType]
	for i, hook := range hooks {
		if hook.ID() == hookID {
			m.hooks[eventType] = append(hooks[:i], hooks[i+1:]...)
			m.logger.Info("hook unregistered", "event_type", eventType, "hook_id", hookID)
			return true
		}
	}
	return false
}

// TriggerEvent runs every hook registered for event.Type asynchronously.
func (m *Manager) TriggerEvent(ctx context.Context, event Event) {
	if m == nil {
		return
	}

	m.mu.RLock()
	hooks := make([]Hook, len(m.hooks[event.Type]))
	copy(hooks, m.hooks[event.Type])
	if m.stdioHook != nil {
		hooks = append(hooks, m.stdioHook)
	}
	m.mu.RUnlock()

	if len(hooks) == 0 {
		return
	}

	m.logger.Debug("triggering event", "event_type", event.Type, "hook_count", len(hooks), "event", event.String())
	for _, hook := range hooks {
		m.pool.execute(ctx, hook, event)
	}
}

// EnableStdioOutput turns on structured stdio output in the given format
// ("json" or "env").
func (m *Manager) EnableStdioOutput(format string) error {
	if format != "json" && format != "env" {
		return fmt.Errorf("hooks: unsupported stdio format: %s", format)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stdioHook = NewStdioHook("stdio", format)
	m.logger.Info("stdio output enabled", "format", format)
	return nil
}

// DisableStdioOutput turns off structured stdio output.
func (m *Manager) DisableStdioOutput() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stdioHook = nil
	m.logger.Info("stdio output disabled")
}

// Stats reports registration counts, for diagnostics CLI surfaces.
func (m *Manager) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hooksByType := make(map[string]int)
	total := 0
	for eventType, hooks := range m.hooks {
		hooksByType[string(eventType)] = len(hooks)
		total += len(hooks)
	}

	return map[string]interface{}{
		"event_types":   len(m.hooks),
		"total_hooks":   total,
		"hooks_by_type": hooksByType,
		"stdio_enabled": m.stdioHook != nil,
		"pool_size":     m.pool.size,
	}
}

// Close waits for in-flight hook executions and shuts the pool down.
func (m *Manager) Close() error {
	if m.pool != nil {
		m.pool.close()
	}
	m.logger.Info("hook manager closed")
	return nil
}

// executionPool bounds the number of hooks running concurrently.
type executionPool struct {
	workers chan struct{}
	size    int
	logger  *slog.Logger
	metrics *metrics.Registry
}

func newExecutionPool(size int, logger *slog.Logger) *executionPool {
	if size <= 0 {
		size = 10
	}
	return &executionPool{workers: make(chan struct{}, size), size: size, logger: logger}
}

func (ep *executionPool) execute(ctx context.Context, hook Hook, event Event) {
	go func() {
		ep.workers <- struct{}{}
		defer func() { <-ep.workers }()

		start := time.Now()
		err := hook.Execute(ctx, event)
		duration := time.Since(start)

		if ep.metrics != nil {
			ep.metrics.HookExecutions.WithLabelValues(string(event.Type)).Inc()
		}
		if err != nil {
			if ep.metrics != nil {
				ep.metrics.HookFailures.WithLabelValues(string(event.Type)).Inc()
			}
			ep.logger.Error("hook execution failed",
				"hook_type", hook.Type(), "hook_id", hook.ID(),
				"event_type", event.Type, "duration_ms", duration.Milliseconds(), "error", err)
			return
		}
		ep.logger.Debug("hook executed",
			"hook_type", hook.Type(), "hook_id", hook.ID(),
			"event_type", event.Type, "duration_ms", duration.Milliseconds())
	}()
}

// close blocks until every worker slot is free, i.e. no hook is running.
func (ep *executionPool) close() {
	for i := 0; i < cap(ep.workers); i++ {
		ep.workers <- struct{}{}
	}
}
